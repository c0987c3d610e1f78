package preprocessing

import (
	"github.com/YuminosukeSato/featprep/core/frame"
)

// pipelineOutputs は 1 回の fit/transform で各段階が生成したフレーム
// 非アクティブな段階は nil
type pipelineOutputs struct {
	oneHot      *frame.Frame
	textSim     *frame.Frame
	hashed      *frame.Frame
	counts      *frame.Frame
	tfidf       *frame.Frame
	scaled      *frame.Frame
	passthrough *frame.Frame
}

// named lists the stage frames for diagnostics.
func (o pipelineOutputs) named() []namedFrame {
	return []namedFrame{
		{"one_hot", o.oneHot},
		{"text_similarity", o.textSim},
		{"hashing", o.hashed},
		{"count_vectorizing", o.counts},
		{"tf_idf", o.tfidf},
		{"scaling", o.scaled},
		{"passthrough", o.passthrough},
	}
}

// assemble は出力を結合する
//
// 順序: one-hot → text similarity → hashing → count → TF-IDF → スケール済み → passthrough
// hashing / count / TF-IDF はスケーラーに送られていない場合のみ未スケールのまま含める
func assemble(index []int, o pipelineOutputs, opts Options) (*frame.Frame, error) {
	parts := []*frame.Frame{o.oneHot, o.textSim}
	if !opts.ScaleHashed {
		parts = append(parts, o.hashed)
	}
	if !opts.ScaleVectors {
		parts = append(parts, o.counts, o.tfidf)
	}
	parts = append(parts, o.scaled, o.passthrough)

	out := frame.NewFrame(index)
	for _, part := range parts {
		if part == nil {
			continue
		}
		var err error
		if out, err = out.Join(part); err != nil {
			return nil, err
		}
	}
	return out, nil
}
