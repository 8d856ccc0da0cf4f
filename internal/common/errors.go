package common

import (
	"errors"
	"fmt"
)

var (
	ErrNoSnapshot     = errors.New("no preferences snapshot to reset to")
	ErrNoticeNotFound = errors.New("update notice not found")
	ErrUnknownAction  = errors.New("unknown update action")
)

// PreferencesError represents preferences-related errors
type PreferencesError struct {
	Operation string
	Err       error
}

func (e *PreferencesError) Error() string {
	return fmt.Sprintf("preferences %s failed: %v", e.Operation, e.Err)
}

func (e *PreferencesError) Unwrap() error {
	return e.Err
}

// NewPreferencesError creates a new preferences error
func NewPreferencesError(operation string, err error) *PreferencesError {
	return &PreferencesError{
		Operation: operation,
		Err:       err,
	}
}
