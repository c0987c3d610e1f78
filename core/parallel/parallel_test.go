package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

func TestRowsCoversEveryRowOnce(t *testing.T) {
	for _, threshold := range []int{0, 10, 1000} {
		hits := make([]int32, 100)
		Rows(len(hits), threshold, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "row %d threshold %d", i, threshold)
		}
	}

	called := false
	Rows(0, 0, func(int, int) { called = true })
	assert.False(t, called)
}

func TestEach(t *testing.T) {
	out := make([]int, 50)
	require.NoError(t, Each(len(out), 1, func(i int) error {
		out[i] = i * i
		return nil
	}))
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}

	boom := errors.New("boom")
	err := Each(8, 1, func(i int) error {
		if i == 5 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)

	var calls int
	err = Each(4, 10, func(i int) error {
		calls++
		if i == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
