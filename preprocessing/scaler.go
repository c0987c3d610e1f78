package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/featprep/core/model"
	"github.com/YuminosukeSato/featprep/core/parallel"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Scaler はスケーリングブロックで使用する数値変換器
// 全ての実装は欠損値 (NaN) を学習時に無視し、変換時にはそのまま残す
type Scaler interface {
	model.Transformer
	model.FittedChecker

	// Name はレジストリに登録された名前を返す
	Name() string
}

// parallelThreshold 以下の行数では逐次処理を行う
const parallelThreshold = 512

// nearZero 未満の分散・範囲は定数特徴量として扱う
const nearZero = 1e-8

// presentValues は列 j の欠損でない値を返す
func presentValues(X mat.Matrix, j int) []float64 {
	r, _ := X.Dims()
	out := make([]float64, 0, r)
	for i := 0; i < r; i++ {
		if v := X.At(i, j); !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// applyElementwise は fn(j, v) を全要素に適用した新しい行列を返す
// 行は CPU 数に応じて分割して処理される。NaN はそのまま残る
func applyElementwise(X mat.Matrix, fn func(j int, v float64) float64) *mat.Dense {
	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	parallel.Rows(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				v := X.At(i, j)
				if math.IsNaN(v) {
					result.Set(i, j, v)
					continue
				}
				result.Set(i, j, fn(j, v))
			}
		}
	})
	return result
}

// StandardScaler はデータを平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Name implements Scaler.
func (s *StandardScaler) Name() string { return "StandardScaler" }

// Fit は訓練データから統計情報（平均、母標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	_, c, err := model.CheckFitInput("StandardScaler.Fit", X)
	if err != nil {
		return err
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		values := presentValues(X, j)
		s.Scale[j] = 1.0
		if len(values) == 0 {
			continue
		}
		mean, variance := stat.PopMeanVariance(values, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		if s.WithStd {
			// 標準偏差が0に近い場合は1に設定（ゼロ除算を避ける）
			if std := math.Sqrt(variance); std >= nearZero {
				s.Scale[j] = std
			}
		}
	}

	s.SetFitted(c)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.CheckInput("StandardScaler", "Transform", X); err != nil {
		return nil, err
	}
	return applyElementwise(X, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.CheckInput("StandardScaler", "InverseTransform", X); err != nil {
		return nil, err
	}
	return applyElementwise(X, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}), nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler はデータを指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin は学習データの最小値
	DataMin []float64

	// DataMax は学習データの最大値
	DataMax []float64

	// Scale は各特徴量のスケール (max - min)
	Scale []float64

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64

	// Clip は変換結果を FeatureRange に収めるかどうか
	Clip bool
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault はデフォルト設定([0,1]範囲)でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Name implements Scaler.
func (m *MinMaxScaler) Name() string { return "MinMaxScaler" }

// Fit は訓練データから最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	_, c, err := model.CheckFitInput("MinMaxScaler.Fit", X)
	if err != nil {
		return err
	}
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValidationError("feature_range", "minimum must be smaller than maximum", m.FeatureRange)
	}

	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		m.Scale[j] = 1.0
		values := presentValues(X, j)
		if len(values) == 0 {
			continue
		}
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		m.DataMin[j] = lo
		m.DataMax[j] = hi

		// 定数特徴量の場合、スケールを1に設定
		if dataRange := hi - lo; math.Abs(dataRange) >= nearZero {
			m.Scale[j] = dataRange
		}
	}

	m.SetFitted(c)
	return nil
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.CheckInput("MinMaxScaler", "Transform", X); err != nil {
		return nil, err
	}
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	return applyElementwise(X, func(j int, v float64) float64 {
		scaled := (v-m.DataMin[j])/m.Scale[j]*featureRange + m.FeatureRange[0]
		if m.Clip {
			scaled = math.Max(m.FeatureRange[0], math.Min(m.FeatureRange[1], scaled))
		}
		return scaled
	}), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.CheckInput("MinMaxScaler", "InverseTransform", X); err != nil {
		return nil, err
	}
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	return applyElementwise(X, func(j int, v float64) float64 {
		return (v-m.FeatureRange[0])/featureRange*m.Scale[j] + m.DataMin[j]
	}), nil
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(feature_range=(%g, %g), clip=%t)", m.FeatureRange[0], m.FeatureRange[1], m.Clip)
}

// MaxAbsScaler は各特徴量を最大絶対値で割り [-1, 1] に収める
type MaxAbsScaler struct {
	model.BaseEstimator

	// MaxAbs は各特徴量の最大絶対値
	MaxAbs []float64

	// Scale は除数 (最大絶対値が0の場合は1)
	Scale []float64
}

// NewMaxAbsScaler は新しいMaxAbsScalerを作成する
func NewMaxAbsScaler() *MaxAbsScaler {
	return &MaxAbsScaler{}
}

// Name implements Scaler.
func (m *MaxAbsScaler) Name() string { return "MaxAbsScaler" }

// Fit は各特徴量の最大絶対値を計算する
func (m *MaxAbsScaler) Fit(X mat.Matrix) error {
	_, c, err := model.CheckFitInput("MaxAbsScaler.Fit", X)
	if err != nil {
		return err
	}
	m.MaxAbs = make([]float64, c)
	m.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		for _, v := range presentValues(X, j) {
			m.MaxAbs[j] = math.Max(m.MaxAbs[j], math.Abs(v))
		}
		m.Scale[j] = m.MaxAbs[j]
		if m.Scale[j] < nearZero {
			m.Scale[j] = 1.0
		}
	}
	m.SetFitted(c)
	return nil
}

// Transform は学習済みの最大絶対値で割る
func (m *MaxAbsScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.CheckInput("MaxAbsScaler", "Transform", X); err != nil {
		return nil, err
	}
	return applyElementwise(X, func(j int, v float64) float64 {
		return v / m.Scale[j]
	}), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MaxAbsScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform は元のスケールに戻す
func (m *MaxAbsScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.CheckInput("MaxAbsScaler", "InverseTransform", X); err != nil {
		return nil, err
	}
	return applyElementwise(X, func(j int, v float64) float64 {
		return v * m.Scale[j]
	}), nil
}
