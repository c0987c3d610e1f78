package frame

import (
	"fmt"
	"math"

	"github.com/paveg/gorilla"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Frame is an ordered set of named float64 columns sharing a row index.
// NaN marks a missing value. Columns are immutable; every operation that
// changes values returns a new frame.
type Frame struct {
	index []int
	df    *gorilla.DataFrame
	// sources maps an output column to the input feature that produced it.
	// Never mutated after construction.
	sources map[string]string
}

// NewFrame creates an empty frame with the given row labels.
func NewFrame(index []int) *Frame {
	return &Frame{
		index: append([]int(nil), index...),
		df:    gorilla.NewDataFrame(),
	}
}

// NewFrameFromColumns builds a frame from parallel name and value slices.
func NewFrameFromColumns(index []int, names []string, data [][]float64) (*Frame, error) {
	if len(names) != len(data) {
		return nil, errors.NewDimensionError("frame.NewFrameFromColumns", len(names), len(data), 1)
	}
	seen := make(map[string]struct{}, len(names))
	columns := make([]gorilla.ISeries, len(names))
	for j, name := range names {
		if _, dup := seen[name]; dup {
			return nil, errors.NewValueError("frame.NewFrameFromColumns", "duplicate column '"+name+"'")
		}
		seen[name] = struct{}{}
		if len(data[j]) != len(index) {
			return nil, errors.NewDimensionError("frame.NewFrameFromColumns", len(index), len(data[j]), 0)
		}
		columns[j] = floatSeries(name, data[j])
	}
	return &Frame{index: append([]int(nil), index...), df: gorilla.NewDataFrame(columns...)}, nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int { return len(f.index) }

// Cols returns the number of columns.
func (f *Frame) Cols() int { return f.df.Width() }

// Index returns a copy of the row labels.
func (f *Frame) Index() []int { return append([]int(nil), f.index...) }

// Columns returns the column names in order.
func (f *Frame) Columns() []string { return f.df.Columns() }

// At returns the value at row i, column j.
func (f *Frame) At(i, j int) float64 {
	s, _ := f.df.Column(f.df.Columns()[j])
	return floatAt(s, i)
}

// Column returns a copy of the values of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	s, ok := f.df.Column(name)
	if !ok {
		return nil, false
	}
	return floatValues(s), true
}

// AddColumn appends a column.
func (f *Frame) AddColumn(name string, values []float64) error {
	if _, ok := f.df.Column(name); ok {
		return errors.NewValueError("Frame.AddColumn", "duplicate column '"+name+"'")
	}
	if len(values) != len(f.index) {
		return errors.NewDimensionError("Frame.AddColumn", len(f.index), len(values), 0)
	}
	f.df = gorilla.NewDataFrame(append(seriesOf(f.df, f.df.Columns()), floatSeries(name, values))...)
	return nil
}

// Structure returns the column layout of f.
func (f *Frame) Structure() Structure {
	return Structure{Columns: f.Columns()}
}

// Align forces f into the layout s: columns of s missing from f are added as
// NaN, columns not in s are dropped and the order follows s.
func (f *Frame) Align(s Structure) *Frame {
	columns := make([]gorilla.ISeries, len(s.Columns))
	complete := true
	for j, name := range s.Columns {
		col, ok := f.df.Column(name)
		if !ok {
			complete = false
			col = nanSeries(name, len(f.index))
		}
		columns[j] = col
	}
	out := &Frame{index: append([]int(nil), f.index...), sources: f.sources}
	if complete && len(s.Columns) > 0 {
		out.df = f.df.Select(s.Columns...)
	} else {
		out.df = gorilla.NewDataFrame(columns...)
	}
	return out
}

// FillNaN returns a copy of f with missing values replaced by value.
func (f *Frame) FillNaN(value float64) *Frame {
	return f.FillNaNFunc(func(string) float64 { return value })
}

// FillNaNFunc returns a copy of f with missing values replaced by
// fill(column). Columns without missing values are shared.
func (f *Frame) FillNaNFunc(fill func(column string) float64) *Frame {
	names := f.df.Columns()
	columns := make([]gorilla.ISeries, len(names))
	for j, name := range names {
		col, _ := f.df.Column(name)
		columns[j] = col

		values := floatValues(col)
		filled := false
		var v float64
		for i, x := range values {
			if !math.IsNaN(x) {
				continue
			}
			if !filled {
				v = fill(name)
				filled = true
			}
			values[i] = v
		}
		if filled {
			columns[j] = floatSeries(name, values)
		}
	}
	return &Frame{index: append([]int(nil), f.index...), df: gorilla.NewDataFrame(columns...), sources: f.sources}
}

// Join returns a frame holding the columns of f followed by those of other.
// Both frames must carry the same row index. A column name present in both
// is a ValidationError naming the two features that produced it.
func (f *Frame) Join(other *Frame) (*Frame, error) {
	if len(f.index) != len(other.index) {
		return nil, errors.NewDimensionError("Frame.Join", len(f.index), len(other.index), 0)
	}
	for i := range f.index {
		if f.index[i] != other.index[i] {
			return nil, errors.NewValueError("Frame.Join", "row indexes differ")
		}
	}
	columns := seriesOf(f.df, f.df.Columns())
	sources := make(map[string]string, len(f.sources)+len(other.sources))
	for name, source := range f.sources {
		sources[name] = source
	}
	for _, name := range other.df.Columns() {
		if _, dup := f.df.Column(name); dup {
			return nil, errors.NewValidationError("feature",
				fmt.Sprintf("features %q and %q both produce output column %q", f.Source(name), other.Source(name), name),
				name)
		}
		col, _ := other.df.Column(name)
		columns = append(columns, col)
		if source, ok := other.sources[name]; ok {
			sources[name] = source
		}
	}
	return &Frame{index: append([]int(nil), f.index...), df: gorilla.NewDataFrame(columns...), sources: sources}, nil
}

// Source returns the input feature that produced column. Columns without a
// recorded source are their own feature.
func (f *Frame) Source(column string) string {
	if source, ok := f.sources[column]; ok {
		return source
	}
	return column
}

// WithSource returns f with every column attributed to feature.
func (f *Frame) WithSource(feature string) *Frame {
	sources := make(map[string]string)
	for _, name := range f.df.Columns() {
		sources[name] = feature
	}
	return &Frame{index: f.index, df: f.df, sources: sources}
}

// WithSourcesFrom returns f carrying the column sources recorded in other.
func (f *Frame) WithSourcesFrom(other *Frame) *Frame {
	return &Frame{index: f.index, df: f.df, sources: other.sources}
}

// Copy returns a frame sharing f's immutable columns.
func (f *Frame) Copy() *Frame {
	return &Frame{
		index:   append([]int(nil), f.index...),
		df:      gorilla.NewDataFrame(seriesOf(f.df, f.df.Columns())...),
		sources: f.sources,
	}
}

// Dense copies the values into a rows×cols matrix. It returns nil when the
// frame has no rows or no columns, since gonum matrices cannot be empty.
func (f *Frame) Dense() *mat.Dense {
	r, c := f.Rows(), f.Cols()
	if r == 0 || c == 0 {
		return nil
	}
	m := mat.NewDense(r, c, nil)
	for j, name := range f.df.Columns() {
		col, _ := f.df.Column(name)
		m.SetCol(j, floatValues(col))
	}
	return m
}

// FromMatrix builds a frame from m using the given row labels and column names.
func FromMatrix(index []int, columns []string, m mat.Matrix) (*Frame, error) {
	r, c := m.Dims()
	if r != len(index) {
		return nil, errors.NewDimensionError("frame.FromMatrix", len(index), r, 0)
	}
	if c != len(columns) {
		return nil, errors.NewDimensionError("frame.FromMatrix", len(columns), c, 1)
	}
	data := make([][]float64, c)
	for j := range data {
		data[j] = mat.Col(nil, j, m)
	}
	return NewFrameFromColumns(index, columns, data)
}

// Head returns up to n leading rows in row-major form.
func (f *Frame) Head(n int) [][]float64 {
	if n > len(f.index) {
		n = len(f.index)
	}
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, f.Cols())
	}
	if n == 0 || f.Cols() == 0 {
		return rows
	}
	head := f.df.Slice(0, n)
	for j, name := range head.Columns() {
		col, _ := head.Column(name)
		for i, v := range floatValues(col) {
			rows[i][j] = v
		}
	}
	return rows
}

// Structure is the column layout captured from a fit-time frame: the same
// columns in the same order with no rows.
type Structure struct {
	Columns []string
}

// Len returns the number of columns.
func (s Structure) Len() int { return len(s.Columns) }

// Empty returns a zero-row frame shaped like s.
func (s Structure) Empty() *Frame {
	return NewFrame(nil).Align(s)
}
