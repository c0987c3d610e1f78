package preprocessing

import (
	"encoding/gob"
	"sort"

	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// ScalerFactory builds an unfitted scaler from keyword arguments. It rejects
// arguments the scaler does not understand.
type ScalerFactory func(kwargs feature.Kwargs) (Scaler, error)

var scalerRegistry = map[string]ScalerFactory{
	"StandardScaler":      newStandardScalerFromKwargs,
	"MinMaxScaler":        newMinMaxScalerFromKwargs,
	"MaxAbsScaler":        newMaxAbsScalerFromKwargs,
	"RobustScaler":        newRobustScalerFromKwargs,
	"QuantileTransformer": newQuantileTransformerFromKwargs,
}

func init() {
	gob.Register(&StandardScaler{})
	gob.Register(&MinMaxScaler{})
	gob.Register(&MaxAbsScaler{})
	gob.Register(&RobustScaler{})
	gob.Register(&QuantileTransformer{})
}

// ScalerNames returns the registered scaler names in sorted order.
func ScalerNames() []string {
	names := make([]string, 0, len(scalerRegistry))
	for name := range scalerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewScaler builds the scaler registered under name.
func NewScaler(name string, kwargs feature.Kwargs) (Scaler, error) {
	factory, ok := scalerRegistry[name]
	if !ok {
		return nil, errors.NewValidationError("scaler", "unknown scaler", name)
	}
	return factory(kwargs)
}

// checkKeys rejects any key outside allowed. "copy" is accepted everywhere and
// ignored since scalers never modify their input.
func checkKeys(scaler string, kwargs feature.Kwargs, allowed ...string) error {
	known := make(map[string]struct{}, len(allowed)+1)
	known["copy"] = struct{}{}
	for _, key := range allowed {
		known[key] = struct{}{}
	}
	for _, key := range kwargs.Keys() {
		if _, ok := known[key]; !ok {
			return errors.NewValidationError(key, "unsupported argument for "+scaler, kwargs[key])
		}
	}
	return nil
}

func newStandardScalerFromKwargs(kwargs feature.Kwargs) (Scaler, error) {
	if err := checkKeys("StandardScaler", kwargs, "with_mean", "with_std"); err != nil {
		return nil, err
	}
	withMean, err := kwargs.Bool("with_mean", true)
	if err != nil {
		return nil, err
	}
	withStd, err := kwargs.Bool("with_std", true)
	if err != nil {
		return nil, err
	}
	return NewStandardScaler(withMean, withStd), nil
}

func newMinMaxScalerFromKwargs(kwargs feature.Kwargs) (Scaler, error) {
	if err := checkKeys("MinMaxScaler", kwargs, "feature_range", "clip"); err != nil {
		return nil, err
	}
	s := NewMinMaxScalerDefault()
	if bounds, ok, err := kwargs.Floats("feature_range"); err != nil {
		return nil, err
	} else if ok {
		if len(bounds) != 2 || bounds[0] >= bounds[1] {
			return nil, errors.NewValidationError("feature_range", "expected (min, max) with min < max", kwargs["feature_range"])
		}
		s.FeatureRange = [2]float64{bounds[0], bounds[1]}
	}
	clip, err := kwargs.Bool("clip", false)
	if err != nil {
		return nil, err
	}
	s.Clip = clip
	return s, nil
}

func newMaxAbsScalerFromKwargs(kwargs feature.Kwargs) (Scaler, error) {
	if err := checkKeys("MaxAbsScaler", kwargs); err != nil {
		return nil, err
	}
	return NewMaxAbsScaler(), nil
}

func newRobustScalerFromKwargs(kwargs feature.Kwargs) (Scaler, error) {
	if err := checkKeys("RobustScaler", kwargs, "with_centering", "with_scaling", "quantile_range", "unit_variance"); err != nil {
		return nil, err
	}
	s := NewRobustScaler()
	var err error
	if s.WithCentering, err = kwargs.Bool("with_centering", true); err != nil {
		return nil, err
	}
	if s.WithScaling, err = kwargs.Bool("with_scaling", true); err != nil {
		return nil, err
	}
	if s.UnitVariance, err = kwargs.Bool("unit_variance", false); err != nil {
		return nil, err
	}
	if bounds, ok, err := kwargs.Floats("quantile_range"); err != nil {
		return nil, err
	} else if ok {
		if len(bounds) != 2 || bounds[0] < 0 || bounds[1] > 100 || bounds[0] > bounds[1] {
			return nil, errors.NewValidationError("quantile_range", "expected (q_min, q_max) within [0, 100]", kwargs["quantile_range"])
		}
		s.QuantileRange = [2]float64{bounds[0], bounds[1]}
	}
	return s, nil
}

func newQuantileTransformerFromKwargs(kwargs feature.Kwargs) (Scaler, error) {
	if err := checkKeys("QuantileTransformer", kwargs,
		"n_quantiles", "output_distribution", "ignore_implicit_zeros", "subsample", "random_state"); err != nil {
		return nil, err
	}
	n, err := kwargs.Int("n_quantiles", 1000)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.NewValidationError("n_quantiles", "must be positive", n)
	}
	dist, err := kwargs.String("output_distribution", "uniform")
	if err != nil {
		return nil, err
	}
	if dist != "uniform" && dist != "normal" {
		return nil, errors.NewValidationError("output_distribution", "must be uniform or normal", dist)
	}
	if ignore, err := kwargs.Bool("ignore_implicit_zeros", false); err != nil {
		return nil, err
	} else if ignore {
		return nil, errors.NewValidationError("ignore_implicit_zeros", "only applies to sparse input", true)
	}
	return NewQuantileTransformer(n, dist), nil
}
