// Package frame provides the two tabular containers used by the preprocessing
// pipeline, both stored as gorilla DataFrames: Table holds raw, possibly
// textual input columns and Frame holds named numeric columns sharing a row
// index.
package frame

import (
	"math"
	"strconv"
	"strings"

	"github.com/paveg/gorilla"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Series is one raw input column. Cells are kept in their textual form and
// parsed on demand; a cell is missing when its valid flag is false.
type Series struct {
	Name  string
	col   gorilla.ISeries
	valid []bool
}

// Len returns the number of cells.
func (s *Series) Len() int { return len(s.valid) }

// Value returns the textual cell at row i and whether it is present.
func (s *Series) Value(i int) (string, bool) {
	if !s.valid[i] {
		return "", false
	}
	return stringAt(s.col, i), true
}

// Float parses the cell at row i. Missing cells yield NaN with ok=false.
func (s *Series) Float(i int) (v float64, ok bool, err error) {
	raw, present := s.Value(i)
	if !present {
		return math.NaN(), false, nil
	}
	text := strings.TrimSpace(raw)
	switch strings.ToLower(text) {
	case "true":
		return 1, true, nil
	case "false":
		return 0, true, nil
	}
	v, err = strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN(), false, errors.NewValueError("Series.Float",
			"column '"+s.Name+"' row "+strconv.Itoa(i)+": cannot parse '"+raw+"' as a number")
	}
	return v, true, nil
}

// Floats parses every cell. Missing cells become NaN.
func (s *Series) Floats() ([]float64, error) {
	out := make([]float64, s.Len())
	for i := range out {
		v, _, err := s.Float(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// IsNumeric reports whether every present cell parses as a number without a
// boolean literal.
func (s *Series) IsNumeric() bool {
	for i := 0; i < s.Len(); i++ {
		text, ok := s.Value(i)
		if !ok {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
			return false
		}
	}
	return true
}

// Unique returns the distinct present values in order of first appearance.
func (s *Series) Unique() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := 0; i < s.Len(); i++ {
		v, ok := s.Value(i)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Table is an ordered set of raw columns sharing a row index. Cells live in
// a DataFrame of string series; presence masks are kept beside it.
type Table struct {
	index []int
	df    *gorilla.DataFrame
	valid map[string][]bool
}

// NewTable creates an empty table with rows indexed 0..nrows-1.
func NewTable(nrows int) *Table {
	index := make([]int, nrows)
	for i := range index {
		index[i] = i
	}
	return NewTableWithIndex(index)
}

// NewTableWithIndex creates an empty table carrying the given row labels.
func NewTableWithIndex(index []int) *Table {
	return &Table{
		index: append([]int(nil), index...),
		df:    gorilla.NewDataFrame(),
		valid: make(map[string][]bool),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Index returns a copy of the row labels.
func (t *Table) Index() []int { return append([]int(nil), t.index...) }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string { return t.df.Columns() }

// HasColumn reports whether name is a column of t.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.valid[name]
	return ok
}

// AddStrings appends a column whose cells are all present.
func (t *Table) AddStrings(name string, values []string) error {
	valid := make([]bool, len(values))
	for i := range valid {
		valid[i] = true
	}
	return t.AddNullable(name, values, valid)
}

// AddFloats appends a numeric column. NaN cells are stored as missing.
func (t *Table) AddFloats(name string, values []float64) error {
	text := make([]string, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		text[i] = strconv.FormatFloat(v, 'g', -1, 64)
		valid[i] = true
	}
	return t.AddNullable(name, text, valid)
}

// AddNullable appends a column with an explicit presence mask.
func (t *Table) AddNullable(name string, values []string, valid []bool) error {
	if name == "" {
		return errors.NewValidationError("column", "column name must not be empty", name)
	}
	if t.HasColumn(name) {
		return errors.NewValidationError("column", "duplicate column name", name)
	}
	if len(values) != len(t.index) {
		return errors.NewDimensionError("Table.AddNullable", len(t.index), len(values), 0)
	}
	if len(valid) != len(values) {
		return errors.NewDimensionError("Table.AddNullable", len(values), len(valid), 0)
	}
	cells := make([]string, len(values))
	for i, ok := range valid {
		if ok {
			cells[i] = values[i]
		}
	}
	t.df = gorilla.NewDataFrame(append(seriesOf(t.df, t.df.Columns()), stringSeries(name, cells))...)
	t.valid[name] = append([]bool(nil), valid...)
	return nil
}

// Column returns the named series or an error wrapping ErrMissingColumn.
func (t *Table) Column(name string) (*Series, error) {
	col, ok := t.df.Column(name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMissingColumn, "column %q", name)
	}
	return &Series{Name: name, col: col, valid: t.valid[name]}, nil
}

// Select returns a table restricted to names, in the given order.
func (t *Table) Select(names []string) (*Table, error) {
	out := NewTableWithIndex(t.index)
	for _, name := range names {
		if !t.HasColumn(name) {
			return nil, errors.Wrapf(errors.ErrMissingColumn, "column %q", name)
		}
		if _, dup := out.valid[name]; dup {
			return nil, errors.NewValidationError("column", "duplicate column name", name)
		}
		out.valid[name] = t.valid[name]
	}
	out.df = t.df.Select(names...)
	return out, nil
}

// Conform returns a table holding names in the given order. Names that are
// not columns of t are added with every cell missing and reported as absent.
func (t *Table) Conform(names []string) (*Table, []string) {
	out := NewTableWithIndex(t.index)
	var absent []string
	columns := make([]gorilla.ISeries, 0, len(names))
	for _, name := range names {
		if _, dup := out.valid[name]; dup {
			continue
		}
		col, ok := t.df.Column(name)
		if !ok {
			absent = append(absent, name)
			col = stringSeries(name, make([]string, len(t.index)))
			out.valid[name] = make([]bool, len(t.index))
		} else {
			out.valid[name] = t.valid[name]
		}
		columns = append(columns, col)
	}
	out.df = gorilla.NewDataFrame(columns...)
	return out, absent
}

// Head returns a table with the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.index) {
		n = len(t.index)
	}
	out := NewTableWithIndex(t.index[:n])
	if t.df.Width() == 0 {
		return out
	}
	out.df = t.df.Slice(0, n)
	for name, valid := range t.valid {
		out.valid[name] = valid[:n]
	}
	return out
}
