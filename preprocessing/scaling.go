package preprocessing

import (
	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// scalingState は学習済みスケーラーと欠損値の埋め値
type scalingState struct {
	// Scaler はスケーリング入力が空の場合 nil
	Scaler    Scaler
	Fill      map[string]float64
	Structure frame.Structure
}

// numericColumns parses the named table columns as numbers. Missing cells
// become NaN and non-numeric text is a ValueError.
func numericColumns(X *frame.Table, names []string) (*frame.Frame, error) {
	out := frame.NewFrame(X.Index())
	for _, name := range names {
		s, err := X.Column(name)
		if err != nil {
			return nil, err
		}
		values, err := s.Floats()
		if err != nil {
			return nil, err
		}
		if !s.IsNumeric() {
			errors.Warn(errors.NewDataConversionWarning("bool", "float64",
				"column '"+name+"' holds boolean literals; mapped to 1 and 0"))
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// scaleInput builds the single frame fed to the scaler: the scaling columns,
// then hashed columns when scaleHashed, then count and TF-IDF columns when
// scaleVectors.
func scaleInput(X *frame.Table, groups *feature.Groups, outs pipelineOutputs, opts Options) (*frame.Frame, error) {
	in, err := numericColumns(X, groups.Get(feature.Scaling).Columns())
	if err != nil {
		return nil, err
	}
	var extra []*frame.Frame
	if opts.ScaleHashed {
		extra = append(extra, outs.hashed)
	}
	if opts.ScaleVectors {
		extra = append(extra, outs.counts, outs.tfidf)
	}
	for _, f := range extra {
		if f == nil {
			continue
		}
		if in, err = in.Join(f); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// fitScaling fills missing values with freshly computed fill values and fits
// the configured scaler. An input without columns skips the scaler.
func fitScaling(in *frame.Frame, opts Options) (scalingState, error) {
	state := scalingState{Structure: in.Structure()}
	if in.Cols() == 0 {
		return state, nil
	}
	state.Fill = opts.Missing.FillValues(in)
	filled := alignFill(in, state.Structure, state.Fill)

	scaler, err := NewScaler(opts.Scaler, opts.ScalerArgs)
	if err != nil {
		return state, err
	}
	if err := scaler.Fit(filled.Dense()); err != nil {
		return state, errors.Wrapf(err, "failed to fit %s", opts.Scaler)
	}
	state.Scaler = scaler
	return state, nil
}

// applyScaling aligns in to the fit-time layout, fills gaps with the fit-time
// values and scales.
func applyScaling(in *frame.Frame, state scalingState) (*frame.Frame, error) {
	if state.Scaler == nil {
		return nil, nil
	}
	aligned := alignFill(in, state.Structure, state.Fill)
	if aligned.Rows() == 0 {
		return aligned, nil
	}
	scaled, err := state.Scaler.Transform(aligned.Dense())
	if err != nil {
		return nil, err
	}
	out, err := frame.FromMatrix(aligned.Index(), aligned.Columns(), scaled)
	if err != nil {
		return nil, err
	}
	return out.WithSourcesFrom(aligned), nil
}
