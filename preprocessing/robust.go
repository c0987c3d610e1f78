package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/featprep/core/model"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// percentile は昇順ソート済み sorted の q パーセンタイル (0-100) を線形補間で求める
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func sortedPresent(X mat.Matrix, j int) []float64 {
	values := presentValues(X, j)
	sort.Float64s(values)
	return values
}

// RobustScaler は中央値を引き、四分位範囲で割る。外れ値の影響を受けにくい
type RobustScaler struct {
	model.BaseEstimator

	// Center は各特徴量の中央値
	Center []float64

	// Scale は各特徴量の分位範囲
	Scale []float64

	WithCentering bool
	WithScaling   bool
	// QuantileRange はスケールに使うパーセンタイル (デフォルト: 25, 75)
	QuantileRange [2]float64
	// UnitVariance は正規分布の場合に分散1となるよう調整するかどうか
	UnitVariance bool
}

// NewRobustScaler は新しいRobustScalerを作成する
func NewRobustScaler() *RobustScaler {
	return &RobustScaler{
		WithCentering: true,
		WithScaling:   true,
		QuantileRange: [2]float64{25, 75},
	}
}

// Name implements Scaler.
func (s *RobustScaler) Name() string { return "RobustScaler" }

// Fit は中央値と分位範囲を計算する
func (s *RobustScaler) Fit(X mat.Matrix) error {
	_, c, err := model.CheckFitInput("RobustScaler.Fit", X)
	if err != nil {
		return err
	}
	qmin, qmax := s.QuantileRange[0], s.QuantileRange[1]
	if !(0 <= qmin && qmin <= qmax && qmax <= 100) {
		return errors.NewValidationError("quantile_range", "invalid quantile range", s.QuantileRange)
	}

	s.Center = make([]float64, c)
	s.Scale = make([]float64, c)

	adjust := 1.0
	if s.UnitVariance {
		adjust = distuv.UnitNormal.Quantile(qmax/100) - distuv.UnitNormal.Quantile(qmin/100)
	}

	for j := 0; j < c; j++ {
		s.Scale[j] = 1.0
		values := sortedPresent(X, j)
		if len(values) == 0 {
			continue
		}
		if s.WithCentering {
			s.Center[j] = percentile(values, 50)
		}
		if s.WithScaling {
			iqr := percentile(values, qmax) - percentile(values, qmin)
			if iqr >= nearZero {
				s.Scale[j] = iqr / adjust
			}
		}
	}
	s.SetFitted(c)
	return nil
}

// Transform は学習済みの中央値と分位範囲で変換する
func (s *RobustScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.CheckInput("RobustScaler", "Transform", X); err != nil {
		return nil, err
	}
	return applyElementwise(X, func(j int, v float64) float64 {
		return (v - s.Center[j]) / s.Scale[j]
	}), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *RobustScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は元のスケールに戻す
func (s *RobustScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.CheckInput("RobustScaler", "InverseTransform", X); err != nil {
		return nil, err
	}
	return applyElementwise(X, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Center[j]
	}), nil
}
