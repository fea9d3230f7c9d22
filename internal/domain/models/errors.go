package models

import (
	"errors"
	"fmt"
)

// ErrEmptyInput signals an empty price series where at least one point is
// required.
var ErrEmptyInput = errors.New("empty input series")

// NoDataError signals that a source returned zero points for a symbol.
type NoDataError struct {
	Symbol string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no market data found for asset: %s", e.Symbol)
}

// ValidationError signals that an AI response failed output schema checks.
// Field names the offending path in the response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ai output validation failed: %s: %s", e.Field, e.Reason)
}

// BackendError wraps a failure from an external backend (market data source
// or AI provider).
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// PersistenceError wraps a storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
