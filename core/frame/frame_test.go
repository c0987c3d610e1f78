package frame

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

func TestTableColumns(t *testing.T) {
	table := NewTable(3)
	require.NoError(t, table.AddStrings("color", []string{"red", "blue", "red"}))
	require.NoError(t, table.AddFloats("amount", []float64{1.5, math.NaN(), 3}))

	assert.Equal(t, []string{"color", "amount"}, table.Columns())
	assert.Equal(t, []int{0, 1, 2}, table.Index())

	color, err := table.Column("color")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, color.Unique())

	amount, err := table.Column("amount")
	require.NoError(t, err)
	values, err := amount.Floats()
	require.NoError(t, err)
	assert.Equal(t, 1.5, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.True(t, amount.IsNumeric())
	assert.False(t, color.IsNumeric())

	_, _, err = color.Float(0)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestTableErrors(t *testing.T) {
	table := NewTable(2)
	require.NoError(t, table.AddStrings("a", []string{"x", "y"}))

	err := table.AddStrings("a", []string{"x", "y"})
	var validationErr *errors.ValidationError
	assert.True(t, errors.As(err, &validationErr))

	err = table.AddStrings("b", []string{"x"})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = table.Column("missing")
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))

	_, err = table.Select([]string{"a", "missing"})
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))
}

func TestTableSelectAndHead(t *testing.T) {
	table := NewTableWithIndex([]int{10, 20, 30})
	require.NoError(t, table.AddStrings("a", []string{"1", "2", "3"}))
	require.NoError(t, table.AddStrings("b", []string{"x", "y", "z"}))

	sel, err := table.Select([]string{"b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, sel.Columns())
	assert.Equal(t, []int{10, 20, 30}, sel.Index())

	head := table.Head(2)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, []int{10, 20}, head.Index())
	assert.Equal(t, []string{"a", "b"}, head.Columns())
	b, err := head.Column("b")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"x", "y"}, b.Unique())
}

func TestTableConform(t *testing.T) {
	table := NewTableWithIndex([]int{4, 5})
	require.NoError(t, table.AddStrings("a", []string{"x", "y"}))
	require.NoError(t, table.AddStrings("extra", []string{"1", "2"}))

	out, absent := table.Conform([]string{"b", "a"})
	assert.Equal(t, []string{"b", "a"}, out.Columns())
	assert.Equal(t, []string{"b"}, absent)
	assert.Equal(t, []int{4, 5}, out.Index())

	b, err := out.Column("b")
	require.NoError(t, err)
	_, ok := b.Value(0)
	assert.False(t, ok)
	assert.Empty(t, b.Unique())
}

func TestFrameAlign(t *testing.T) {
	f := NewFrame([]int{0, 1})
	require.NoError(t, f.AddColumn("b", []float64{1, 2}))
	require.NoError(t, f.AddColumn("extra", []float64{9, 9}))

	structure := Structure{Columns: []string{"a", "b"}}
	aligned := f.Align(structure)

	assert.Equal(t, []string{"a", "b"}, aligned.Columns())
	a, _ := aligned.Column("a")
	assert.True(t, math.IsNaN(a[0]) && math.IsNaN(a[1]))
	b, _ := aligned.Column("b")
	assert.Equal(t, []float64{1, 2}, b)

	filled := aligned.FillNaN(0)
	a, _ = filled.Column("a")
	assert.Equal(t, []float64{0, 0}, a)
	a, _ = aligned.Column("a")
	assert.True(t, math.IsNaN(a[0]), "FillNaN returns a copy")

	// 元のフレームは変更されない
	orig, _ := f.Column("b")
	assert.Equal(t, []float64{1, 2}, orig)

	empty := structure.Empty()
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, []string{"a", "b"}, empty.Columns())
}

func TestFrameFillNaNFunc(t *testing.T) {
	f := NewFrame([]int{0, 1, 2})
	require.NoError(t, f.AddColumn("x", []float64{1, math.NaN(), 3}))
	require.NoError(t, f.AddColumn("y", []float64{math.NaN(), 5, math.NaN()}))

	fills := map[string]float64{"x": 2, "y": -1}
	filled := f.FillNaNFunc(func(name string) float64 { return fills[name] })

	x, _ := filled.Column("x")
	y, _ := filled.Column("y")
	assert.Equal(t, []float64{1, 2, 3}, x)
	assert.Equal(t, []float64{-1, 5, -1}, y)
}

func TestFrameJoin(t *testing.T) {
	left := NewFrame([]int{0, 1})
	require.NoError(t, left.AddColumn("a", []float64{1, 2}))
	right := NewFrame([]int{0, 1})
	require.NoError(t, right.AddColumn("b", []float64{3, 4}))

	joined, err := left.Join(right)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, joined.Columns())
	assert.Equal(t, 4.0, joined.At(1, 1))
	assert.Equal(t, 1, left.Cols())

	_, err = joined.Join(right)
	var validationErr *errors.ValidationError
	assert.True(t, errors.As(err, &validationErr), "duplicate columns must fail")

	var valueErr *errors.ValueError
	shifted := NewFrame([]int{5, 6})
	_, err = left.Join(shifted)
	assert.True(t, errors.As(err, &valueErr), "different row labels must fail")
}

func TestFrameJoinNamesSources(t *testing.T) {
	encoded, err := NewFrameFromColumns([]int{0}, []string{"a_b"}, [][]float64{{1}})
	require.NoError(t, err)
	encoded = encoded.WithSource("a")
	assert.Equal(t, "a", encoded.Source("a_b"))

	passthrough := NewFrame([]int{0})
	require.NoError(t, passthrough.AddColumn("a_b", []float64{2}))
	assert.Equal(t, "a_b", passthrough.Source("a_b"))

	_, err = encoded.Join(passthrough)
	var validationErr *errors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), `features "a" and "a_b" both produce output column "a_b"`)

	other := NewFrame([]int{0})
	require.NoError(t, other.AddColumn("c", []float64{3}))
	joined, err := encoded.Join(other)
	require.NoError(t, err)
	assert.Equal(t, "a", joined.Source("a_b"))
	assert.Equal(t, "a", joined.Align(Structure{Columns: []string{"a_b"}}).FillNaN(0).Source("a_b"))
}

func TestFrameDenseRoundTrip(t *testing.T) {
	f := NewFrame([]int{0, 1, 2})
	require.NoError(t, f.AddColumn("a", []float64{1, 2, 3}))
	require.NoError(t, f.AddColumn("b", []float64{4, 5, 6}))

	m := f.Dense()
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 6.0, m.At(2, 1))

	back, err := FromMatrix(f.Index(), f.Columns(), m)
	require.NoError(t, err)
	assert.Equal(t, f.Head(3), back.Head(3))

	assert.Nil(t, NewFrame(nil).Dense())
	assert.Equal(t, [][]float64{{1, 4}}, f.Head(1))
}

func TestNewFrameFromColumns(t *testing.T) {
	f, err := NewFrameFromColumns([]int{7, 8}, []string{"a", "b"}, [][]float64{{1, 2}, {3, math.NaN()}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Columns())
	assert.Equal(t, []int{7, 8}, f.Index())
	assert.Equal(t, 3.0, f.At(0, 1))
	assert.True(t, math.IsNaN(f.At(1, 1)))

	_, err = NewFrameFromColumns([]int{0}, []string{"a", "a"}, [][]float64{{1}, {2}})
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	_, err = NewFrameFromColumns([]int{0}, []string{"a"}, [][]float64{{1, 2}})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestReadCSV(t *testing.T) {
	input := "color,amount,text\nred,1.5,hello world\nblue,,NA\n"
	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"color", "amount", "text"}, table.Columns())

	amount, _ := table.Column("amount")
	_, ok := amount.Value(1)
	assert.False(t, ok)

	text, _ := table.Column("text")
	_, ok = text.Value(1)
	assert.False(t, ok)
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"color", "amount"},
		{"red", 1.5},
		{"blue", 2},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))

	table, err := ReadXLSX(path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	amount, _ := table.Column("amount")
	values, err := amount.Floats()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2}, values)
}
