package preprocessing

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featprep/core/frame"
)

// FeatureMatrix is the assembled numeric output of a Preprocessor.
//
// Columns is nil when the return type is "np". Data is nil when the output
// has no rows or no columns, since gonum matrices cannot be empty.
type FeatureMatrix struct {
	Index   []int
	Columns []string
	NCols   int
	Data    *mat.Dense
}

// Dims returns the number of rows and columns.
func (m *FeatureMatrix) Dims() (int, int) {
	return len(m.Index), m.NCols
}

// At returns the value at row i and column j. Like mat.Dense it panics with
// mat.ErrIndexOutOfRange when the position is outside the matrix.
func (m *FeatureMatrix) At(i, j int) float64 {
	if m.Data == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	return m.Data.At(i, j)
}

// Row returns a copy of row i. A matrix without columns yields an empty row;
// an out-of-range i panics with mat.ErrRowAccess.
func (m *FeatureMatrix) Row(i int) []float64 {
	if m.Data == nil {
		if i < 0 || i >= len(m.Index) {
			panic(mat.ErrRowAccess)
		}
		return []float64{}
	}
	return mat.Row(nil, i, m.Data)
}

// Frame returns the matrix as a labeled frame. Unnamed columns are labeled
// by position.
func (m *FeatureMatrix) Frame() (*frame.Frame, error) {
	columns := m.Columns
	if columns == nil {
		columns = make([]string, m.NCols)
		for j := range columns {
			columns[j] = strconv.Itoa(j)
		}
	}
	if m.Data == nil {
		return frame.NewFrame(m.Index).Align(frame.Structure{Columns: columns}), nil
	}
	return frame.FromMatrix(m.Index, columns, m.Data)
}
