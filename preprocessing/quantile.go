package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/featprep/core/model"
	"github.com/YuminosukeSato/featprep/core/parallel"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// boundsThreshold 以内の値は分位点の端とみなす
const boundsThreshold = 1e-7

// QuantileTransformer は各特徴量を経験分布で一様分布または正規分布に写像する
type QuantileTransformer struct {
	model.BaseEstimator

	// NQuantiles は計算する分位点の数 (デフォルト: 1000)
	NQuantiles int
	// OutputDistribution は "uniform" または "normal"
	OutputDistribution string

	// References は分位点に対応する累積確率 (0..1)
	References []float64
	// Quantiles は特徴量ごとの分位点
	Quantiles [][]float64
}

// NewQuantileTransformer は新しいQuantileTransformerを作成する
func NewQuantileTransformer(nQuantiles int, outputDistribution string) *QuantileTransformer {
	return &QuantileTransformer{
		NQuantiles:         nQuantiles,
		OutputDistribution: outputDistribution,
	}
}

// Name implements Scaler.
func (q *QuantileTransformer) Name() string { return "QuantileTransformer" }

// Fit は各特徴量の分位点を計算する。分位点の数は標本数を超えない
func (q *QuantileTransformer) Fit(X mat.Matrix) error {
	r, c, err := model.CheckFitInput("QuantileTransformer.Fit", X)
	if err != nil {
		return err
	}
	if q.NQuantiles <= 0 {
		return errors.NewValidationError("n_quantiles", "must be positive", q.NQuantiles)
	}
	switch q.OutputDistribution {
	case "uniform", "normal":
	default:
		return errors.NewValidationError("output_distribution", "must be uniform or normal", q.OutputDistribution)
	}

	n := q.NQuantiles
	if r < n {
		n = r
	}
	q.References = make([]float64, n)
	if n == 1 {
		q.References[0] = 0
	} else {
		floats.Span(q.References, 0, 1)
	}

	q.Quantiles = make([][]float64, c)
	_ = parallel.Each(c, columnThreshold, func(j int) error {
		values := sortedPresent(X, j)
		col := make([]float64, n)
		for k, ref := range q.References {
			if len(values) == 0 {
				col[k] = 0
				continue
			}
			col[k] = percentile(values, ref*100)
		}
		// 補間誤差による単調性の崩れを防ぐ
		for k := 1; k < n; k++ {
			col[k] = math.Max(col[k], col[k-1])
		}
		q.Quantiles[j] = col
		return nil
	})
	q.SetFitted(c)
	return nil
}

// Transform は学習済みの分位点で値を写像する
func (q *QuantileTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := q.CheckInput("QuantileTransformer", "Transform", X); err != nil {
		return nil, err
	}
	normal := q.OutputDistribution == "normal"
	clipMin := distuv.UnitNormal.Quantile(boundsThreshold)
	clipMax := distuv.UnitNormal.Quantile(1 - boundsThreshold)

	return applyElementwise(X, func(j int, v float64) float64 {
		p := q.cdf(j, v)
		if !normal {
			return p
		}
		z := distuv.UnitNormal.Quantile(p)
		return math.Max(clipMin, math.Min(clipMax, z))
	}), nil
}

// cdf は値 v の経験累積確率を返す。前方・後方の補間の平均を取り、重複する
// 分位点を対称に扱う
func (q *QuantileTransformer) cdf(j int, v float64) float64 {
	quantiles := q.Quantiles[j]
	n := len(quantiles)
	if v-boundsThreshold < quantiles[0] {
		return 0
	}
	if v+boundsThreshold > quantiles[n-1] {
		return 1
	}
	forward := interp(v, quantiles, q.References)

	negQ := make([]float64, n)
	negR := make([]float64, n)
	for k := 0; k < n; k++ {
		negQ[k] = -quantiles[n-1-k]
		negR[k] = -q.References[n-1-k]
	}
	backward := interp(-v, negQ, negR)
	return 0.5 * (forward - backward)
}

// interp は昇順の xp 上で x を線形補間する。xp の範囲外は端の値を返す
func interp(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if x <= xp[0] {
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}
	// xp[k-1] <= x < xp[k] となる k
	k := sort.Search(n, func(i int) bool { return xp[i] > x })
	x0, x1 := xp[k-1], xp[k]
	if x1 == x0 {
		return fp[k-1]
	}
	return fp[k-1] + (fp[k]-fp[k-1])*(x-x0)/(x1-x0)
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (q *QuantileTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := q.Fit(X); err != nil {
		return nil, err
	}
	return q.Transform(X)
}
