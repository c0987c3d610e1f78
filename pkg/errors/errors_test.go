package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "featprep: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Transform",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "featprep: Transform: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Transform", 10, 8, 0)

	want := "featprep: Transform: dimension mismatch on axis 0 (rows). Expected 10, got 8"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Preprocessor", "Transform")

	want := "featprep: Preprocessor: this model is not fitted yet. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}

	// 設定エラーとは区別できること
	var validationErr *ValidationError
	if As(err, &validationErr) {
		t.Error("NotFittedError must not be castable to *ValidationError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("scaler", "unknown scaler", "FancyScaler")

	want := "featprep: validation failed for parameter 'scaler': unknown scaler (got: FancyScaler)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var validationErr *ValidationError
	if !As(err, &validationErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if validationErr.ParamName != "scaler" {
		t.Errorf("ParamName = %q, want %q", validationErr.ParamName, "scaler")
	}
}

func TestPersistenceErrors(t *testing.T) {
	exists := NewModelExistsError("prep", "/tmp/models/prep.gob")
	if !strings.Contains(exists.Error(), "overwrite=true") {
		t.Errorf("ModelExistsError should hint at overwrite: %v", exists)
	}
	var existsErr *ModelExistsError
	if !As(exists, &existsErr) {
		t.Error("Error should be castable to *ModelExistsError")
	}

	missing := NewModelNotFoundError("prep", "/tmp/models/prep.gob")
	var notFoundErr *ModelNotFoundError
	if !As(missing, &notFoundErr) {
		t.Error("Error should be castable to *ModelNotFoundError")
	}
	if As(missing, &existsErr) {
		t.Error("ModelNotFoundError must not be castable to *ModelExistsError")
	}
}

func TestWarnUsesHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewDataConversionWarning("string", "float64", "passthrough column"))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	want := "data converted from string to float64. Reason: passthrough column"
	if got[0].Error() != want {
		t.Errorf("Error() = %v, want %v", got[0].Error(), want)
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrMissingColumn, "column %q", "colorA")

	if !Is(wrapped, ErrMissingColumn) {
		t.Error("Expected Is(wrapped, ErrMissingColumn) to be true")
	}

	if !strings.Contains(wrapped.Error(), `column "colorA"`) {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}
