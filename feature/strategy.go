package feature

import (
	"strings"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Strategy selects how an input column is turned into model features.
type Strategy int

const (
	// None passes a numeric column through unchanged.
	None Strategy = iota
	// OneHot expands a categorical column into one indicator per value.
	OneHot
	// Hashing maps values into a fixed number of signed hash buckets.
	Hashing
	// CountVectorizing counts tokens of a text column.
	CountVectorizing
	// TfIdf weights token counts by inverse document frequency.
	TfIdf
	// TextSimilarity encodes which characters occur in a value.
	TextSimilarity
	// Scaling rescales a numeric column with the configured scaler.
	Scaling
)

// Strategies lists every strategy in the order groups are reported.
var Strategies = []Strategy{OneHot, Hashing, CountVectorizing, TfIdf, TextSimilarity, Scaling, None}

var strategyNames = map[Strategy]string{
	None:             "none",
	OneHot:           "one_hot",
	Hashing:          "hashing",
	CountVectorizing: "count_vectorizing",
	TfIdf:            "tf_idf",
	TextSimilarity:   "text_similarity",
	Scaling:          "scaling",
}

var strategyAliases = map[string]Strategy{
	"none":               None,
	"":                   None,
	"one hot":            OneHot,
	"one hot encoding":   OneHot,
	"onehot":             OneHot,
	"hashing":            Hashing,
	"feature hashing":    Hashing,
	"count vectorizing":  CountVectorizing,
	"count vectorising":  CountVectorizing,
	"count vectorizer":   CountVectorizing,
	"tf idf":             TfIdf,
	"tfidf":              TfIdf,
	"tf idf vectorizing": TfIdf,
	"text similarity":    TextSimilarity,
	"scaling":            Scaling,
	"scale":              Scaling,
}

// String returns the canonical name of s.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStrategy resolves a feature_strategy value. Matching ignores case and
// treats '-', '_' and spaces alike, so "one hot encoding", "one-hot" and
// "ONE_HOT" are the same strategy.
func ParseStrategy(name string) (Strategy, error) {
	key := normalizeName(name)
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return None, errors.NewValidationError("feature_strategy", "unknown feature strategy", name)
}

func normalizeName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	return strings.Join(strings.Fields(key), " ")
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
