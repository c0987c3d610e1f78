// Package feature describes how each raw input column is encoded. A Spec is
// one row of the feature metadata table; Classify partitions Specs into
// strategy groups with parsed, typed strategy parameters.
package feature

import (
	"strings"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Spec is the definition of a single input column.
type Spec struct {
	// Name は入力列名 (一意キー)
	Name string `yaml:"name"`
	// VariableType は情報用の型ラベル (例: "categorical", "text", "numeric")
	VariableType string `yaml:"variable_type"`
	// Strategy はエンコード方式
	Strategy Strategy `yaml:"feature_strategy"`
	// Args は strategy_args の生テキスト
	Args string `yaml:"strategy_args"`
}

// Specs is an ordered feature metadata table.
type Specs []Spec

// Names returns the column names in table order.
func (s Specs) Names() []string {
	names := make([]string, len(s))
	for i, spec := range s {
		names[i] = spec.Name
	}
	return names
}

// Lookup returns the spec named name.
func (s Specs) Lookup(name string) (Spec, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// Validate checks that every spec has a unique, non-empty name.
func (s Specs) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, spec := range s {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return errors.NewValidationError("name", "feature name must not be empty", i)
		}
		if _, ok := seen[spec.Name]; ok {
			return errors.NewValidationError("name", "duplicate feature name", spec.Name)
		}
		seen[spec.Name] = struct{}{}
	}
	return nil
}

// Params is the parsed strategy_args payload of a spec. Only strategies that
// take arguments have a Params variant.
type Params interface {
	strategy() Strategy
}

// HashingParams configures the hashing encoder.
type HashingParams struct {
	NFeatures int
}

func (HashingParams) strategy() Strategy { return Hashing }

// DocFreq is a document frequency bound, either an absolute count or a
// proportion of the corpus.
type DocFreq struct {
	Count   int
	Ratio   float64
	IsRatio bool
}

// Resolve converts the bound into a document count for a corpus of n documents.
func (d DocFreq) Resolve(n int) float64 {
	if d.IsRatio {
		return d.Ratio * float64(n)
	}
	return float64(d.Count)
}

// VectorizerParams configures the count and TF-IDF vectorizers.
type VectorizerParams struct {
	Lowercase    bool
	NgramMin     int
	NgramMax     int
	Analyzer     string
	TokenPattern string
	StopWords    []string
	MaxFeatures  int
	MinDF        DocFreq
	MaxDF        DocFreq
	Binary       bool
	Vocabulary   []string

	// TF-IDF のみ
	Norm        string
	UseIDF      bool
	SmoothIDF   bool
	SublinearTF bool

	tfidf bool
}

func (p VectorizerParams) strategy() Strategy {
	if p.tfidf {
		return TfIdf
	}
	return CountVectorizing
}

// DefaultTokenPattern matches runs of two or more letters, digits or
// underscores.
const DefaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// DefaultVectorizerParams returns the vectorizer defaults. tfidf selects the
// TF-IDF variant, which normalises rows with l2 and applies smoothed idf.
func DefaultVectorizerParams(tfidf bool) VectorizerParams {
	p := VectorizerParams{
		Lowercase:    true,
		NgramMin:     1,
		NgramMax:     1,
		Analyzer:     "word",
		TokenPattern: DefaultTokenPattern,
		MinDF:        DocFreq{Count: 1},
		MaxDF:        DocFreq{Ratio: 1.0, IsRatio: true},
		tfidf:        tfidf,
	}
	if tfidf {
		p.Norm = "l2"
		p.UseIDF = true
		p.SmoothIDF = true
	}
	return p
}

// IsTfIdf reports whether p configures a TF-IDF vectorizer.
func (p VectorizerParams) IsTfIdf() bool { return p.tfidf }
