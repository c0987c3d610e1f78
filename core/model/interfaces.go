package model

// Persistable は名前付きで保存できるモデルのインターフェース
type Persistable interface {
	// Save は path/name.gob に保存し、書き込んだパスを返す
	Save(name, path string, overwrite bool) (string, error)
}

// FittedChecker は学習状態を公開するモデルのインターフェース
type FittedChecker interface {
	IsFitted() bool
}
