package model

import (
	"encoding/gob"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// ModelExt は保存されるモデルファイルの拡張子
const ModelExt = ".gob"

// ModelPath は name と保存先ディレクトリからモデルファイルのパスを組み立てる
func ModelPath(name, dir string) string {
	return filepath.Join(dir, name+ModelExt)
}

// SaveNamed はモデルを <dir>/<name>.gob に保存する
//
// パラメータ:
//   - model: 保存するモデル（gobでエンコード可能な値）
//   - name: モデル名
//   - dir: 保存先ディレクトリ（存在しなければ作成する）
//   - overwrite: 既存ファイルを上書きするかどうか
//
// 戻り値:
//   - string: 保存したファイルのパス
//   - error: 同名のモデルが存在し overwrite=false の場合は ModelExistsError
//
// 使用例:
//
//	path, err := model.SaveNamed(snapshot, "prep", "models", false)
func SaveNamed(model interface{}, name, dir string, overwrite bool) (string, error) {
	if name == "" {
		return "", errors.NewValidationError("name", "model name must not be empty", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create model directory %s", dir)
	}

	path := ModelPath(name, dir)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", errors.NewModelExistsError(name, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, "failed to stat %s", path)
		}
	}

	// 書き込みに失敗しても既存のモデルファイルは変更されない
	tmp, err := os.CreateTemp(dir, name+ModelExt+".*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "failed to create file")
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "failed to set file mode")
	}

	if err := encode(model, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "failed to write model file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrapf(err, "failed to move model into %s", path)
	}
	return path, nil
}

// LoadNamed は <dir>/<name>.gob からモデルを読み込む
//
// 戻り値:
//   - error: ファイルが存在しない場合は ModelNotFoundError
func LoadNamed(model interface{}, name, dir string) error {
	path := ModelPath(name, dir)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.NewModelNotFoundError(name, path)
		}
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return decode(model, file)
}

func encode(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

func decode(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
