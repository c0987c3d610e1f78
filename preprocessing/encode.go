package preprocessing

import (
	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/core/parallel"
	"github.com/YuminosukeSato/featprep/feature"
)

// Groups with at most columnThreshold columns are encoded sequentially.
const columnThreshold = 1

// encodeUnique encodes every distinct present value of s once and copies the
// vector onto each row holding that value. Missing cells encode as zeros.
// The output columns are attributed to s.
func encodeUnique(s *frame.Series, index []int, names []string, encode func(value string) []float64) (*frame.Frame, error) {
	n := s.Len()
	data := make([][]float64, len(names))
	for j := range data {
		data[j] = make([]float64, n)
	}

	cache := make(map[string][]float64)
	for i := 0; i < n; i++ {
		value, ok := s.Value(i)
		if !ok {
			continue
		}
		vec, seen := cache[value]
		if !seen {
			vec = encode(value)
			cache[value] = vec
		}
		for j, x := range vec {
			data[j][i] = x
		}
	}

	out, err := frame.NewFrameFromColumns(index, names, data)
	if err != nil {
		return nil, err
	}
	return out.WithSource(s.Name), nil
}

// encodeGroup runs encodeColumn over every column of g, concurrently when the
// group has several columns, and joins the results in group order.
func encodeGroup(X *frame.Table, g *feature.Group, encodeColumn func(i int, s *frame.Series) (*frame.Frame, error)) (*frame.Frame, error) {
	names := g.Columns()
	parts := make([]*frame.Frame, len(names))
	err := parallel.Each(len(names), columnThreshold, func(i int) error {
		s, err := X.Column(names[i])
		if err != nil {
			return err
		}
		parts[i], err = encodeColumn(i, s)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := frame.NewFrame(X.Index())
	for _, part := range parts {
		if out, err = out.Join(part); err != nil {
			return nil, err
		}
	}
	return out, nil
}
