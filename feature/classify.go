package feature

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Group is the set of specs sharing one strategy.
type Group struct {
	Strategy Strategy
	Specs    Specs
	// Params は Specs と同じ順序の解析済み引数 (引数を取らない戦略では nil)
	Params []Params
	Active bool
}

// Columns returns the input column names of the group.
func (g *Group) Columns() []string {
	if g == nil {
		return nil
	}
	return g.Specs.Names()
}

// Groups indexes the strategy groups of a feature table.
type Groups struct {
	byStrategy map[Strategy]*Group
}

// Get returns the group for s. Inactive strategies yield an empty group.
func (g *Groups) Get(s Strategy) *Group {
	if grp, ok := g.byStrategy[s]; ok {
		return grp
	}
	return &Group{Strategy: s}
}

// Active returns the non-empty groups in reporting order.
func (g *Groups) Active() []*Group {
	out := make([]*Group, 0, len(Strategies))
	for _, s := range Strategies {
		if grp := g.Get(s); grp.Active {
			out = append(out, grp)
		}
	}
	return out
}

// Classify partitions specs by strategy and parses each strategy_args value.
// Hashing arguments become bucket counts and vectorizer arguments become
// VectorizerParams. Invalid arguments are configuration errors.
func Classify(specs Specs) (*Groups, error) {
	if err := specs.Validate(); err != nil {
		return nil, err
	}

	groups := &Groups{byStrategy: make(map[Strategy]*Group, len(Strategies))}
	for _, s := range Strategies {
		groups.byStrategy[s] = &Group{Strategy: s}
	}

	for _, spec := range specs {
		grp, ok := groups.byStrategy[spec.Strategy]
		if !ok {
			return nil, errors.NewValidationError("feature_strategy", "unknown feature strategy", int(spec.Strategy))
		}
		params, err := parseParams(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %q", spec.Name)
		}
		grp.Specs = append(grp.Specs, spec)
		grp.Params = append(grp.Params, params)
	}

	for _, grp := range groups.byStrategy {
		grp.Active = len(grp.Specs) > 0
	}
	return groups, nil
}

func parseParams(spec Spec) (Params, error) {
	switch spec.Strategy {
	case Hashing:
		n, err := ParseBucketCount(spec.Args)
		if err != nil {
			return nil, err
		}
		return HashingParams{NFeatures: n}, nil
	case CountVectorizing, TfIdf:
		kwargs, err := ParseKwargs(spec.Args)
		if err != nil {
			return nil, err
		}
		p, err := BindVectorizerParams(kwargs, spec.Strategy == TfIdf)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, nil
}

// ParseBucketCount coerces a hashing strategy_args value to a positive
// bucket count. Integral floats such as "8.0" are accepted.
func ParseBucketCount(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.NewValidationError("strategy_args", "hashing requires a bucket count", text)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, errors.NewValidationError("strategy_args", "bucket count must be an integer", text)
		}
		n = int(f)
	}
	if n <= 0 {
		return 0, errors.NewValidationError("strategy_args", "bucket count must be positive", text)
	}
	return n, nil
}

var vectorizerKeys = map[string]bool{
	"lowercase":     false,
	"ngram_range":   false,
	"analyzer":      false,
	"token_pattern": false,
	"stop_words":    false,
	"max_features":  false,
	"min_df":        false,
	"max_df":        false,
	"binary":        false,
	"vocabulary":    false,
	"norm":          true,
	"use_idf":       true,
	"smooth_idf":    true,
	"sublinear_tf":  true,
}

// BindVectorizerParams applies kwargs on top of the vectorizer defaults.
// Unknown keys and TF-IDF only keys on a count vectorizer are rejected.
func BindVectorizerParams(kwargs Kwargs, tfidf bool) (VectorizerParams, error) {
	p := DefaultVectorizerParams(tfidf)
	for _, key := range kwargs.Keys() {
		tfidfOnly, known := vectorizerKeys[key]
		if !known || (tfidfOnly && !tfidf) {
			return p, errors.NewValidationError(key, "unsupported vectorizer argument", kwargs[key])
		}
	}

	var err error
	if p.Lowercase, err = kwargs.Bool("lowercase", p.Lowercase); err != nil {
		return p, err
	}
	if p.Binary, err = kwargs.Bool("binary", p.Binary); err != nil {
		return p, err
	}
	if p.MaxFeatures, err = kwargs.Int("max_features", 0); err != nil {
		return p, err
	}
	if p.MaxFeatures < 0 {
		return p, errors.NewValidationError("max_features", "must be positive", p.MaxFeatures)
	}
	if p.NgramMin, p.NgramMax, err = bindNgramRange(kwargs); err != nil {
		return p, err
	}

	if p.Analyzer, err = kwargs.String("analyzer", p.Analyzer); err != nil {
		return p, err
	}
	switch p.Analyzer {
	case "word", "char", "char_wb":
	default:
		return p, errors.NewValidationError("analyzer", "analyzer must be word, char or char_wb", p.Analyzer)
	}
	if p.TokenPattern, err = kwargs.String("token_pattern", p.TokenPattern); err != nil {
		return p, err
	}
	p.TokenPattern = strings.TrimPrefix(p.TokenPattern, "(?u)")
	if _, rerr := regexp.Compile(p.TokenPattern); rerr != nil {
		return p, errors.NewValidationError("token_pattern", rerr.Error(), p.TokenPattern)
	}

	if p.StopWords, err = bindStopWords(kwargs); err != nil {
		return p, err
	}
	if vocab, ok, err := kwargs.Strings("vocabulary"); err != nil {
		return p, err
	} else if ok {
		p.Vocabulary = vocab
	}

	if p.MinDF, err = bindDocFreq(kwargs, "min_df", p.MinDF); err != nil {
		return p, err
	}
	if p.MaxDF, err = bindDocFreq(kwargs, "max_df", p.MaxDF); err != nil {
		return p, err
	}

	if !tfidf {
		return p, nil
	}
	if p.Norm, err = kwargs.String("norm", p.Norm); err != nil {
		return p, err
	}
	switch p.Norm {
	case "l1", "l2", "":
	default:
		return p, errors.NewValidationError("norm", "norm must be l1, l2 or none", p.Norm)
	}
	if p.UseIDF, err = kwargs.Bool("use_idf", p.UseIDF); err != nil {
		return p, err
	}
	if p.SmoothIDF, err = kwargs.Bool("smooth_idf", p.SmoothIDF); err != nil {
		return p, err
	}
	if p.SublinearTF, err = kwargs.Bool("sublinear_tf", p.SublinearTF); err != nil {
		return p, err
	}
	return p, nil
}

func bindNgramRange(kwargs Kwargs) (int, int, error) {
	v, ok := kwargs["ngram_range"]
	if !ok {
		return 1, 1, nil
	}
	var lo, hi int
	switch x := v.(type) {
	case int:
		lo, hi = x, x
	case []interface{}:
		bounds, _, err := kwargs.Ints("ngram_range")
		if err != nil {
			return 0, 0, err
		}
		if len(bounds) != 2 {
			return 0, 0, errors.NewValidationError("ngram_range", "expected two bounds", x)
		}
		lo, hi = bounds[0], bounds[1]
	default:
		return 0, 0, errors.NewValidationError("ngram_range", "expected an integer or a pair", v)
	}
	if lo < 1 || hi < lo {
		return 0, 0, errors.NewValidationError("ngram_range", "invalid n-gram bounds", v)
	}
	return lo, hi, nil
}

func bindStopWords(kwargs Kwargs) ([]string, error) {
	words, ok, err := kwargs.Strings("stop_words")
	if err != nil || !ok {
		return nil, err
	}
	if len(words) == 1 {
		if strings.EqualFold(words[0], "english") {
			return EnglishStopWords(), nil
		}
	}
	return words, nil
}

func bindDocFreq(kwargs Kwargs, key string, def DocFreq) (DocFreq, error) {
	v, ok := kwargs[key]
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case int:
		if x < 0 {
			return def, errors.NewValidationError(key, "must not be negative", x)
		}
		return DocFreq{Count: x}, nil
	case float64:
		if x < 0 || x > 1 {
			return def, errors.NewValidationError(key, "proportion must be in [0, 1]", x)
		}
		return DocFreq{Ratio: x, IsRatio: true}, nil
	}
	return def, errors.NewValidationError(key, "expected a count or a proportion", v)
}
