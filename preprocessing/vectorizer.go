package preprocessing

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// vectorizerState は列ごとの学習済み語彙と IDF 重み
type vectorizerState struct {
	Vocabularies map[string][]string
	IDF          map[string][]float64
	Structure    frame.Structure
}

// analyzer turns one document into its terms.
type analyzer struct {
	params    feature.VectorizerParams
	token     *regexp.Regexp
	stopWords map[string]struct{}
}

var whitespace = regexp.MustCompile(`\s\s+`)

func newAnalyzer(p feature.VectorizerParams) (*analyzer, error) {
	token, err := regexp.Compile(p.TokenPattern)
	if err != nil {
		return nil, errors.NewValidationError("token_pattern", err.Error(), p.TokenPattern)
	}
	a := &analyzer{params: p, token: token}
	if len(p.StopWords) > 0 {
		a.stopWords = make(map[string]struct{}, len(p.StopWords))
		for _, w := range p.StopWords {
			a.stopWords[w] = struct{}{}
		}
	}
	return a, nil
}

func (a *analyzer) analyze(doc string) []string {
	if a.params.Lowercase {
		doc = strings.ToLower(doc)
	}
	switch a.params.Analyzer {
	case "char":
		return a.charNgrams(doc)
	case "char_wb":
		return a.charWBNgrams(doc)
	}
	return a.wordNgrams(a.tokenize(doc))
}

func (a *analyzer) tokenize(doc string) []string {
	var tokens []string
	for _, m := range a.token.FindAllStringSubmatch(doc, -1) {
		tok := m[0]
		// 捕捉グループが1つならその部分をトークンとする
		if len(m) == 2 {
			tok = m[1]
		}
		if _, stop := a.stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func (a *analyzer) wordNgrams(tokens []string) []string {
	lo, hi := a.params.NgramMin, a.params.NgramMax
	if hi == 1 {
		return tokens
	}
	var terms []string
	if lo == 1 {
		terms = append(terms, tokens...)
		lo = 2
	}
	for n := lo; n <= hi && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func (a *analyzer) charNgrams(doc string) []string {
	runes := []rune(whitespace.ReplaceAllString(doc, " "))
	var terms []string
	for n := a.params.NgramMin; n <= a.params.NgramMax; n++ {
		for i := 0; i+n <= len(runes); i++ {
			terms = append(terms, string(runes[i:i+n]))
		}
	}
	return terms
}

// charWBNgrams builds character n-grams inside word boundaries, padding each
// word with a space on both sides. A word shorter than n counts once.
func (a *analyzer) charWBNgrams(doc string) []string {
	var terms []string
	for _, word := range strings.Fields(whitespace.ReplaceAllString(doc, " ")) {
		w := []rune(" " + word + " ")
		for n := a.params.NgramMin; n <= a.params.NgramMax; n++ {
			offset := 0
			terms = append(terms, string(w[offset:min(offset+n, len(w))]))
			for offset+n < len(w) {
				offset++
				terms = append(terms, string(w[offset:min(offset+n, len(w))]))
			}
			if offset == 0 {
				break
			}
		}
	}
	return terms
}

// termCounts counts the vocabulary terms of doc.
func termCounts(a *analyzer, doc string, pos map[string]int, width int) []float64 {
	counts := make([]float64, width)
	for _, term := range a.analyze(doc) {
		if j, ok := pos[term]; ok {
			counts[j]++
		}
	}
	return counts
}

// fitVocabulary learns the sorted vocabulary of corpus and the idf weights.
func fitVocabulary(a *analyzer, corpus []string) ([]string, []float64, error) {
	p := a.params
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range a.analyze(doc) {
			tf[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	var vocab []string
	if len(p.Vocabulary) > 0 {
		vocab = append(vocab, p.Vocabulary...)
	} else {
		maxDocs := p.MaxDF.Resolve(len(corpus))
		minDocs := p.MinDF.Resolve(len(corpus))
		if maxDocs < minDocs {
			return nil, nil, errors.NewValidationError("max_df", "max_df corresponds to fewer documents than min_df", maxDocs)
		}
		for term, n := range df {
			if float64(n) > maxDocs || float64(n) < minDocs {
				continue
			}
			vocab = append(vocab, term)
		}
		if p.MaxFeatures > 0 && len(vocab) > p.MaxFeatures {
			sort.Slice(vocab, func(x, y int) bool {
				if tf[vocab[x]] != tf[vocab[y]] {
					return tf[vocab[x]] > tf[vocab[y]]
				}
				return vocab[x] < vocab[y]
			})
			vocab = vocab[:p.MaxFeatures]
		}
		sort.Strings(vocab)
	}
	if len(vocab) == 0 {
		return nil, nil, errors.NewValueError("vectorizer.Fit", "empty vocabulary; documents may only contain stop words")
	}

	var idf []float64
	if p.IsTfIdf() && p.UseIDF {
		n := float64(len(corpus))
		idf = make([]float64, len(vocab))
		for j, term := range vocab {
			d := float64(df[term])
			if p.SmoothIDF {
				idf[j] = math.Log((1+n)/(1+d)) + 1
			} else {
				idf[j] = math.Log(n/d) + 1
			}
		}
	}
	return vocab, idf, nil
}

// weigh applies binary, sublinear tf, idf and row normalisation to counts.
func weigh(p feature.VectorizerParams, counts, idf []float64) []float64 {
	for j, c := range counts {
		if c == 0 {
			continue
		}
		if p.Binary {
			c = 1
		}
		if p.IsTfIdf() {
			if p.SublinearTF {
				c = 1 + math.Log(c)
			}
			if idf != nil {
				c *= idf[j]
			}
		}
		counts[j] = c
	}
	if !p.IsTfIdf() {
		return counts
	}
	var norm float64
	switch p.Norm {
	case "l2":
		for _, c := range counts {
			norm += c * c
		}
		norm = math.Sqrt(norm)
	case "l1":
		for _, c := range counts {
			norm += math.Abs(c)
		}
	}
	if norm > 0 {
		for j := range counts {
			counts[j] /= norm
		}
	}
	return counts
}

func vectorColumnNames(col string, vocab []string) []string {
	names := make([]string, len(vocab))
	for rank, term := range vocab {
		names[rank] = col + "_" + strconv.Itoa(rank) + "_" + term
	}
	return names
}

// encodeVectors vectorizes every column of g with the fitted vocabularies.
// Columns are named <col>_<rank>_<term>; unseen terms contribute nothing.
func encodeVectors(X *frame.Table, g *feature.Group, state vectorizerState) (*frame.Frame, error) {
	return encodeGroup(X, g, func(i int, s *frame.Series) (*frame.Frame, error) {
		p := g.Params[i].(feature.VectorizerParams)
		a, err := newAnalyzer(p)
		if err != nil {
			return nil, err
		}
		vocab := state.Vocabularies[s.Name]
		idf := state.IDF[s.Name]
		pos := make(map[string]int, len(vocab))
		for j, term := range vocab {
			pos[term] = j
		}
		return encodeUnique(s, X.Index(), vectorColumnNames(s.Name, vocab), func(value string) []float64 {
			return weigh(p, termCounts(a, value, pos, len(vocab)), idf)
		})
	})
}

func fitVectors(X *frame.Table, g *feature.Group) (*frame.Frame, vectorizerState, error) {
	state := vectorizerState{
		Vocabularies: make(map[string][]string),
		IDF:          make(map[string][]float64),
	}
	for i, name := range g.Columns() {
		s, err := X.Column(name)
		if err != nil {
			return nil, state, err
		}
		a, err := newAnalyzer(g.Params[i].(feature.VectorizerParams))
		if err != nil {
			return nil, state, err
		}
		vocab, idf, err := fitVocabulary(a, s.Unique())
		if err != nil {
			return nil, state, errors.Wrapf(err, "column %q", name)
		}
		state.Vocabularies[name] = vocab
		state.IDF[name] = idf
	}
	out, err := encodeVectors(X, g, state)
	if err != nil {
		return nil, state, err
	}
	state.Structure = out.Structure()
	return out, state, nil
}

func applyVectors(X *frame.Table, g *feature.Group, state vectorizerState) (*frame.Frame, error) {
	out, err := encodeVectors(X, g, state)
	if err != nil {
		return nil, err
	}
	return alignZero(out, state.Structure), nil
}
