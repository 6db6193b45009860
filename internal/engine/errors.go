package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete means an advance was attempted with unanswered visible questions
	ErrIncomplete = errors.New("all visible questions must be answered")
	// ErrPersistence is matched by every *PersistenceError
	ErrPersistence = errors.New("failed to save progress")
)

// PersistenceError wraps a failed or rejected persistence call
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
