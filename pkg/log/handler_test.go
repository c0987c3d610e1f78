package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

func TestErrFmtHandlerAddsErrorContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, LevelInfo))

	logger.Error("Transform failed", ErrAttr(errors.NewNotFittedError("Preprocessor", "Transform")))
	logger.Debug("hidden")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["severity"])
	assert.Equal(t, "Transform failed", entries[0]["message"])
	assert.Equal(t, ErrorNotFitted, entries[0][ErrorCodeKey])
	assert.Equal(t, "NotFittedError", entries[0][ErrorTypeKey])
	assert.Contains(t, entries[0], "logging.googleapis.com/sourceLocation")
}

func TestErrFmtHandlerWithoutError(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, LevelDebug)).Info("Fit completed", SamplesKey, 10)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], ErrorCodeKey)
	assert.Equal(t, 10.0, entries[0][SamplesKey])
}

func TestErrorFields(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		typ  string
	}{
		{"not fitted", errors.NewNotFittedError("Preprocessor", "Transform"), ErrorNotFitted, "NotFittedError"},
		{"validation", errors.NewValidationError("scaler", "unknown scaler", "Normalizer"), ErrorConfiguration, "ValidationError"},
		{"value", errors.NewValueError("scaling", "could not convert"), ErrorInvalidInput, "ValueError"},
		{"exists", errors.NewModelExistsError("prep", "/tmp/prep.gob"), ErrorModelExists, "ModelExistsError"},
		{"not found", errors.NewModelNotFoundError("prep", "/tmp/prep.gob"), ErrorModelNotFound, "ModelNotFoundError"},
		{"empty", errors.Wrap(errors.ErrEmptyData, "Preprocessor.Fit"), ErrorEmptyData, "error"},
		{"missing column", errors.Wrapf(errors.ErrMissingColumn, "column %q", "cityB"), ErrorMissingColumn, "error"},
		{"other", fmt.Errorf("disk full"), ErrorInternal, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []any{ErrorCodeKey, tt.code, ErrorTypeKey, tt.typ}, ErrorFields(tt.err))
		})
	}
}

func TestParseLevelAliases(t *testing.T) {
	lvl, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, lvl)

	lvl, err = ParseLevel("Debug")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)
}
