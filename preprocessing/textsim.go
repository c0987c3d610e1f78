package preprocessing

import (
	"sort"
	"strconv"

	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/feature"
)

// textSimilarityState は列ごとの学習済み文字クラス (コードポイント昇順)
type textSimilarityState struct {
	Classes   map[string][]rune
	Structure frame.Structure
}

func fitCharClasses(s *frame.Series) []rune {
	seen := make(map[rune]struct{})
	for _, value := range s.Unique() {
		for _, r := range value {
			seen[r] = struct{}{}
		}
	}
	classes := make([]rune, 0, len(seen))
	for r := range seen {
		classes = append(classes, r)
	}
	sort.Slice(classes, func(a, b int) bool { return classes[a] < classes[b] })
	return classes
}

// encodeTextSimilarity marks, for each value, which fitted characters occur in
// it. Columns are named <col>_<codepoint>; unseen characters are ignored.
func encodeTextSimilarity(X *frame.Table, g *feature.Group, classes map[string][]rune) (*frame.Frame, error) {
	return encodeGroup(X, g, func(_ int, s *frame.Series) (*frame.Frame, error) {
		cols := classes[s.Name]
		names := make([]string, len(cols))
		pos := make(map[rune]int, len(cols))
		for j, r := range cols {
			names[j] = s.Name + "_" + strconv.Itoa(int(r))
			pos[r] = j
		}
		return encodeUnique(s, X.Index(), names, func(value string) []float64 {
			vec := make([]float64, len(cols))
			for _, r := range value {
				if j, ok := pos[r]; ok {
					vec[j] = 1
				}
			}
			return vec
		})
	})
}

func fitTextSimilarity(X *frame.Table, g *feature.Group) (*frame.Frame, textSimilarityState, error) {
	state := textSimilarityState{Classes: make(map[string][]rune)}
	for _, name := range g.Columns() {
		s, err := X.Column(name)
		if err != nil {
			return nil, state, err
		}
		state.Classes[name] = fitCharClasses(s)
	}
	out, err := encodeTextSimilarity(X, g, state.Classes)
	if err != nil {
		return nil, state, err
	}
	state.Structure = out.Structure()
	return out, state, nil
}

func applyTextSimilarity(X *frame.Table, g *feature.Group, state textSimilarityState) (*frame.Frame, error) {
	out, err := encodeTextSimilarity(X, g, state.Classes)
	if err != nil {
		return nil, err
	}
	return alignZero(out, state.Structure), nil
}
