package preprocessing

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// MissingPolicy はスケーリング入力の欠損値の埋め方
type MissingPolicy string

const (
	// MissingZeros は0で埋める (デフォルト)
	MissingZeros MissingPolicy = "zeros"
	// MissingMean は学習時の列平均で埋める
	MissingMean MissingPolicy = "mean"
	// MissingMedian は学習時の列中央値で埋める
	MissingMedian MissingPolicy = "median"
	// MissingMode は学習時の最頻値で埋める (同数の場合は最小値)
	MissingMode MissingPolicy = "mode"
	// MissingNone は欠損値をそのまま残す
	MissingNone MissingPolicy = "none"
)

// ParseMissingPolicy validates a missing-value policy name.
func ParseMissingPolicy(name string) (MissingPolicy, error) {
	p := MissingPolicy(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case MissingZeros, MissingMean, MissingMedian, MissingMode, MissingNone:
		return p, nil
	case "":
		return MissingZeros, nil
	}
	return "", errors.NewValidationError("missing", "missing must be zeros, mean, median, mode or none", name)
}

// FillValues computes the per-column fill values of f under p. Columns with no
// present value fall back to 0. MissingNone yields nil.
func (p MissingPolicy) FillValues(f *frame.Frame) map[string]float64 {
	if p == MissingNone {
		return nil
	}
	fill := make(map[string]float64, f.Cols())
	for _, name := range f.Columns() {
		col, _ := f.Column(name)
		values := make([]float64, 0, len(col))
		for _, v := range col {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 || p == MissingZeros {
			fill[name] = 0
			continue
		}
		switch p {
		case MissingMean:
			fill[name] = stat.Mean(values, nil)
		case MissingMedian:
			sort.Float64s(values)
			fill[name] = percentile(values, 50)
		case MissingMode:
			sort.Float64s(values)
			fill[name] = sortedMode(values)
		}
	}
	return fill
}

// sortedMode returns the most frequent value of sorted; ties go to the
// smallest value.
func sortedMode(sorted []float64) float64 {
	mode, best := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > best {
			mode, best = sorted[i], j-i
		}
		i = j
	}
	return mode
}

// alignZero forces f into s and zero fills the gaps. Used for encoders whose
// absent columns mean "did not occur".
func alignZero(f *frame.Frame, s frame.Structure) *frame.Frame {
	return f.Align(s).FillNaN(0)
}

// alignFill forces f into s and fills gaps with the fit-time values. A nil
// fill map leaves missing values in place.
func alignFill(f *frame.Frame, s frame.Structure, fill map[string]float64) *frame.Frame {
	aligned := f.Align(s)
	if fill == nil {
		return aligned
	}
	return aligned.FillNaNFunc(func(col string) float64 { return fill[col] })
}
