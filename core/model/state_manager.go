// Package model tracks the fitted state of preprocessing components and
// persists them with encoding/gob.
package model

import (
	"sync"
	"time"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// StateManager guards the fitted flag and the shape of the last successful
// fit. Fields are exported for gob.
type StateManager struct {
	mu sync.RWMutex

	Fitted bool
	// NFeatures is the number of input columns named by the feature specs.
	NFeatures int
	// NSamples is the row count of the training table.
	NSamples int
	FittedAt time.Time
}

// NewStateManager returns an unfitted StateManager.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether Commit has been called since the last Reset.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// Commit marks a successful fit over nSamples rows and nFeatures input
// columns and returns the fit time.
func (s *StateManager) Commit(nFeatures, nSamples int) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
	s.NFeatures = nFeatures
	s.NSamples = nSamples
	s.FittedAt = time.Now()
	return s.FittedAt
}

// Reset forgets the previous fit.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NFeatures = 0
	s.NSamples = 0
	s.FittedAt = time.Time{}
}

// RequireFitted returns a NotFittedError naming modelName and method if the
// model has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// ModelState is a snapshot of a StateManager.
type ModelState struct {
	Fitted    bool      `json:"fitted"`
	NFeatures int       `json:"n_features,omitempty"`
	NSamples  int       `json:"n_samples,omitempty"`
	FittedAt  time.Time `json:"fitted_at,omitempty"`
}

// GetState returns a snapshot of the current state.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Fitted:    s.Fitted,
		NFeatures: s.NFeatures,
		NSamples:  s.NSamples,
		FittedAt:  s.FittedAt,
	}
}
