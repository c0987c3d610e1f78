package frame

import (
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/gorilla"
)

// mem backs every column. The Go allocator is garbage collected, so frames
// and tables are never released explicitly.
var mem = memory.NewGoAllocator()

func stringSeries(name string, values []string) gorilla.ISeries {
	return gorilla.NewSeries(name, values, mem)
}

func floatSeries(name string, values []float64) gorilla.ISeries {
	return gorilla.NewSeries(name, values, mem)
}

func nanSeries(name string, n int) gorilla.ISeries {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return floatSeries(name, values)
}

// floatValues copies the cells of a float64 column.
func floatValues(s gorilla.ISeries) []float64 {
	if arr, ok := s.Array().(*array.Float64); ok {
		return append([]float64(nil), arr.Float64Values()...)
	}
	out := make([]float64, s.Len())
	for i := range out {
		v, err := strconv.ParseFloat(s.GetAsString(i), 64)
		if err != nil {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// floatAt reads one cell of a float64 column.
func floatAt(s gorilla.ISeries, i int) float64 {
	if arr, ok := s.Array().(*array.Float64); ok {
		return arr.Value(i)
	}
	v, err := strconv.ParseFloat(s.GetAsString(i), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// stringAt reads one cell of a string column.
func stringAt(s gorilla.ISeries, i int) string {
	if arr, ok := s.Array().(*array.String); ok {
		return arr.Value(i)
	}
	return s.GetAsString(i)
}

// seriesOf returns the columns of df in names order.
func seriesOf(df *gorilla.DataFrame, names []string) []gorilla.ISeries {
	out := make([]gorilla.ISeries, 0, len(names))
	for _, name := range names {
		if s, ok := df.Column(name); ok {
			out = append(out, s)
		}
	}
	return out
}
