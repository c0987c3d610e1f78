package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator はスケーラーに埋め込む学習状態と学習時の列数
// gobで永続化できるように公開フィールドで保持する
type BaseEstimator struct {
	State EstimatorState
	// NFeatures は学習時の列数
	NFeatures int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted は列数を記録して学習済み状態にする
func (e *BaseEstimator) SetFitted(nFeatures int) {
	e.NFeatures = nFeatures
	e.State = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
	e.NFeatures = 0
}

// CheckFitInput は学習データが空でないことを確認し、行数と列数を返す
func CheckFitInput(op string, X mat.Matrix) (rows, cols int, err error) {
	rows, cols = X.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return rows, cols, nil
}

// CheckInput は学習済みであることと X の列数が学習時と一致することを確認する
// name はモデル名、method は呼び出し元のメソッド名
func (e *BaseEstimator) CheckInput(name, method string, X mat.Matrix) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(name, method)
	}
	if _, c := X.Dims(); c != e.NFeatures {
		return errors.NewDimensionError(name+"."+method, e.NFeatures, c, 1)
	}
	return nil
}
