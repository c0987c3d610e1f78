package log

import (
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Model and operation context.
const (
	// ModelNameKey names the component type, e.g. "Preprocessor".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies one Preprocessor instance (a UUID).
	EstimatorIDKey = "estimator.id"

	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"

	// ComponentKey names the package or subsystem that logged the entry.
	ComponentKey = "ml.component"

	// PhaseKey is PhaseTraining or PhaseInference.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
)

// Performance.
const (
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorCodeKey carries one of the Error* codes below.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey names the typed error from pkg/errors.
	ErrorTypeKey = "error.type"

	// StacktraceKey holds the stack captured by cockroachdb/errors.
	StacktraceKey = "error.stacktrace"
)

// Feature preprocessing context.
const (
	// StrategyKey names the feature strategy of a group, e.g. "one_hot".
	StrategyKey = "feature.strategy"

	// ColumnsKey lists input or output column names of a stage.
	ColumnsKey = "feature.columns"

	// StageKey identifies a diagnostic stage: "classify", "fit", "transform".
	StageKey = "feature.stage"

	// ScalerKey names the fitted scaler.
	ScalerKey = "feature.scaler"

	// SampleKey carries the first rows of an intermediate frame.
	SampleKey = "feature.sample"
)

const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationSave         = "save"
	OperationLoad         = "load"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorMissingColumn     = "MISSING_COLUMN"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConfiguration     = "CONFIGURATION"
	ErrorModelExists       = "MODEL_EXISTS"
	ErrorModelNotFound     = "MODEL_NOT_FOUND"
	ErrorPanic             = "PANIC"
	ErrorInternal          = "INTERNAL"
)

// ErrorFields classifies err into ErrorCodeKey and ErrorTypeKey pairs ready
// to append to a log call.
func ErrorFields(err error) []any {
	code, typ := classify(err)
	return []any{ErrorCodeKey, code, ErrorTypeKey, typ}
}

func classify(err error) (code, typ string) {
	var (
		notFitted *errors.NotFittedError
		dimension *errors.DimensionError
		invalid   *errors.ValidationError
		value     *errors.ValueError
		exists    *errors.ModelExistsError
		notFound  *errors.ModelNotFoundError
		panicked  *errors.PanicError
	)
	switch {
	case errors.As(err, &panicked):
		return ErrorPanic, "PanicError"
	case errors.As(err, &notFitted):
		return ErrorNotFitted, "NotFittedError"
	case errors.As(err, &dimension):
		return ErrorDimensionMismatch, "DimensionError"
	case errors.As(err, &invalid):
		return ErrorConfiguration, "ValidationError"
	case errors.As(err, &value):
		return ErrorInvalidInput, "ValueError"
	case errors.As(err, &exists):
		return ErrorModelExists, "ModelExistsError"
	case errors.As(err, &notFound):
		return ErrorModelNotFound, "ModelNotFoundError"
	case errors.Is(err, errors.ErrEmptyData):
		return ErrorEmptyData, "error"
	case errors.Is(err, errors.ErrMissingColumn):
		return ErrorMissingColumn, "error"
	default:
		return ErrorInternal, "error"
	}
}
