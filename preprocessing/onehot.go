package preprocessing

import (
	"sort"
	"strconv"

	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/feature"
)

// oneHotState は学習時のダミー列構成
type oneHotState struct {
	Structure frame.Structure
}

// sortedCategories は列の値を昇順に並べる。全て数値なら数値順
func sortedCategories(s *frame.Series) []string {
	values := s.Unique()
	if s.IsNumeric() {
		sort.SliceStable(values, func(a, b int) bool {
			x, _ := strconv.ParseFloat(values[a], 64)
			y, _ := strconv.ParseFloat(values[b], 64)
			return x < y
		})
		return values
	}
	sort.Strings(values)
	return values
}

// encodeOneHot は各列の値ごとに <列名>_<値> の指示列を作る
// 列の構成は入力データに現れた値だけで決まるため、変換時は学習時の構成に揃える
func encodeOneHot(X *frame.Table, g *feature.Group) (*frame.Frame, error) {
	return encodeGroup(X, g, func(_ int, s *frame.Series) (*frame.Frame, error) {
		categories := sortedCategories(s)
		names := make([]string, len(categories))
		pos := make(map[string]int, len(categories))
		for j, c := range categories {
			names[j] = s.Name + "_" + c
			pos[c] = j
		}
		return encodeUnique(s, X.Index(), names, func(value string) []float64 {
			vec := make([]float64, len(categories))
			vec[pos[value]] = 1
			return vec
		})
	})
}

func fitOneHot(X *frame.Table, g *feature.Group) (*frame.Frame, oneHotState, error) {
	out, err := encodeOneHot(X, g)
	if err != nil {
		return nil, oneHotState{}, err
	}
	return out, oneHotState{Structure: out.Structure()}, nil
}

func applyOneHot(X *frame.Table, g *feature.Group, state oneHotState) (*frame.Frame, error) {
	out, err := encodeOneHot(X, g)
	if err != nil {
		return nil, err
	}
	return alignZero(out, state.Structure), nil
}
