package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

func column(values ...float64) *mat.Dense {
	return mat.NewDense(len(values), 1, values)
}

func TestStandardScaler(t *testing.T) {
	s := NewStandardScalerDefault()
	out, err := s.FitTransform(column(1, 2, 3, 4, 5))
	require.NoError(t, err)

	got := mat.Col(nil, 0, out)
	var sum, sq float64
	for _, v := range got {
		sum += v
		sq += v * v
	}
	assert.InDelta(t, 0, sum/5, 1e-12)
	assert.InDelta(t, 1, math.Sqrt(sq/5), 1e-12)
	assert.InDelta(t, 3, s.Mean[0], 1e-12)
	assert.InDelta(t, math.Sqrt2, s.Scale[0], 1e-12)

	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4, 5}, mat.Col(nil, 0, back), 1e-12)
}

func TestStandardScalerConstantAndMissing(t *testing.T) {
	s := NewStandardScalerDefault()
	X := mat.NewDense(3, 2, []float64{
		7, 1,
		7, math.NaN(),
		7, 3,
	})
	out, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Scale[0])
	assert.Equal(t, 0.0, out.At(0, 0))
	assert.InDelta(t, 2, s.Mean[1], 1e-12)
	assert.True(t, math.IsNaN(out.At(1, 1)))
}

func TestScalerTransformErrors(t *testing.T) {
	s := NewStandardScalerDefault()
	_, err := s.Transform(column(1))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	require.NoError(t, s.Fit(column(1, 2)))
	_, err = s.Transform(mat.NewDense(1, 2, []float64{1, 2}))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))
}

func TestMinMaxScaler(t *testing.T) {
	s := NewMinMaxScaler([2]float64{-1, 1})
	out, err := s.FitTransform(column(0, 5, 10))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, mat.Col(nil, 0, out), 1e-12)

	s.Clip = true
	clipped, err := s.Transform(column(20, -10))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1}, mat.Col(nil, 0, clipped))

	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 5, 10}, mat.Col(nil, 0, back), 1e-12)
}

func TestMaxAbsScaler(t *testing.T) {
	s := NewMaxAbsScaler()
	out, err := s.FitTransform(column(-4, 2, 1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0.5, 0.25}, mat.Col(nil, 0, out), 1e-12)
}

func TestRobustScaler(t *testing.T) {
	s := NewRobustScaler()
	out, err := s.FitTransform(column(1, 2, 3, 4, 100))
	require.NoError(t, err)

	// median 3, IQR 4 - 2
	assert.InDelta(t, 3, s.Center[0], 1e-12)
	assert.InDelta(t, 2, s.Scale[0], 1e-12)
	assert.InDeltaSlice(t, []float64{-1, -0.5, 0, 0.5, 48.5}, mat.Col(nil, 0, out), 1e-12)

	unit := NewRobustScaler()
	unit.UnitVariance = true
	require.NoError(t, unit.Fit(column(1, 2, 3, 4, 100)))
	assert.InDelta(t, 2/1.3489795003921634, unit.Scale[0], 1e-9)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.Equal(t, 4.0, percentile(sorted, 100))
	assert.InDelta(t, 2.5, percentile(sorted, 50), 1e-12)
	assert.InDelta(t, 1.75, percentile(sorted, 25), 1e-12)
	assert.True(t, math.IsNaN(percentile(nil, 50)))
}

func TestQuantileTransformerUniform(t *testing.T) {
	q := NewQuantileTransformer(1000, "uniform")
	out, err := q.FitTransform(column(1, 2, 3, 4, 5))
	require.NoError(t, err)

	assert.Len(t, q.References, 5)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, mat.Col(nil, 0, out), 1e-9)

	between, err := q.Transform(column(2.5, -10, 10))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.375, 0, 1}, mat.Col(nil, 0, between), 1e-9)
}

func TestQuantileTransformerNormal(t *testing.T) {
	q := NewQuantileTransformer(10, "normal")
	out, err := q.FitTransform(column(1, 2, 3, 4, 5))
	require.NoError(t, err)

	got := mat.Col(nil, 0, out)
	assert.InDelta(t, 0, got[2], 1e-9)
	assert.False(t, math.IsInf(got[0], 0))
	assert.Less(t, got[0], -5.0)
	assert.Greater(t, got[4], 5.0)
}

func TestNewScaler(t *testing.T) {
	assert.Equal(t, []string{"MaxAbsScaler", "MinMaxScaler", "QuantileTransformer", "RobustScaler", "StandardScaler"}, ScalerNames())

	tests := []struct {
		name   string
		scaler string
		args   string
		check  func(t *testing.T, s Scaler)
	}{
		{
			name:   "standard without mean",
			scaler: "StandardScaler",
			args:   "with_mean=false,copy=true",
			check: func(t *testing.T, s Scaler) {
				assert.False(t, s.(*StandardScaler).WithMean)
				assert.True(t, s.(*StandardScaler).WithStd)
			},
		},
		{
			name:   "minmax range",
			scaler: "MinMaxScaler",
			args:   "feature_range=-1;1|tuple|float,clip=true",
			check: func(t *testing.T, s Scaler) {
				assert.Equal(t, [2]float64{-1, 1}, s.(*MinMaxScaler).FeatureRange)
				assert.True(t, s.(*MinMaxScaler).Clip)
			},
		},
		{
			name:   "robust range",
			scaler: "RobustScaler",
			args:   "quantile_range=10;90|tuple|float,with_centering=false",
			check: func(t *testing.T, s Scaler) {
				assert.Equal(t, [2]float64{10, 90}, s.(*RobustScaler).QuantileRange)
				assert.False(t, s.(*RobustScaler).WithCentering)
			},
		},
		{
			name:   "quantile normal",
			scaler: "QuantileTransformer",
			args:   "n_quantiles=50,output_distribution=normal,random_state=0",
			check: func(t *testing.T, s Scaler) {
				assert.Equal(t, 50, s.(*QuantileTransformer).NQuantiles)
				assert.Equal(t, "normal", s.(*QuantileTransformer).OutputDistribution)
			},
		},
		{
			name:   "maxabs",
			scaler: "MaxAbsScaler",
			check: func(t *testing.T, s Scaler) {
				assert.Equal(t, "MaxAbsScaler", s.Name())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kwargs, err := feature.ParseKwargs(tt.args)
			require.NoError(t, err)
			s, err := NewScaler(tt.scaler, kwargs)
			require.NoError(t, err)
			assert.False(t, s.IsFitted())
			tt.check(t, s)
		})
	}
}

func TestNewScalerRejects(t *testing.T) {
	tests := []struct {
		name   string
		scaler string
		args   string
	}{
		{"unknown scaler", "Normalizer", ""},
		{"unknown argument", "StandardScaler", "with_median=true"},
		{"bad bool", "StandardScaler", "with_mean=maybe"},
		{"inverted range", "MinMaxScaler", "feature_range=1;0|tuple|float"},
		{"range out of bounds", "RobustScaler", "quantile_range=-5;50|tuple|float"},
		{"bad distribution", "QuantileTransformer", "output_distribution=cauchy"},
		{"sparse only", "QuantileTransformer", "ignore_implicit_zeros=true"},
		{"no arguments", "MaxAbsScaler", "clip=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kwargs, err := feature.ParseKwargs(tt.args)
			require.NoError(t, err)
			_, err = NewScaler(tt.scaler, kwargs)
			require.Error(t, err)
		})
	}
}
