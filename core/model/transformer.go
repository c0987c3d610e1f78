package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featprep/core/frame"
)

// Transformer は数値行列を変換するインターフェース（スケーラーが実装する）
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer は逆変換可能な変換器のインターフェース
type InverseTransformer interface {
	Transformer

	// InverseTransform は変換を逆方向に適用
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// TableTransformer は生のテーブルを数値の特徴量行列に変換するインターフェース
type TableTransformer[M any] interface {
	// Fit は学習データから列ごとのエンコード・スケーリングのパラメータを学習する
	Fit(X *frame.Table) error

	// Transform は学習済みのパラメータでテーブルを変換する
	Transform(X *frame.Table) (M, error)

	// FitTransform はFitとTransformを同じデータに対して実行する
	FitTransform(X *frame.Table) (M, error)
}
