package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidEntrantCount = errors.New("invalid entrant count")
	ErrInconsistentConfig  = errors.New("inconsistent configuration")
	ErrMLUnavailable       = errors.New("ml place probability unavailable")
	ErrDuplicateEntrant    = errors.New("duplicate horse number")
	ErrInvalidHorseNumber  = errors.New("horse number must be positive")
)

// MinFieldSize is the smallest field that can be ranked and covered by trio tickets.
const MinFieldSize = 3

// InvalidEntrantCountError rejects fields too small to rank or bet.
type InvalidEntrantCountError struct {
	Count int
	Min   int
}

func (e *InvalidEntrantCountError) Error() string {
	return fmt.Sprintf("field has %d entrants, at least %d required", e.Count, e.Min)
}

func (e *InvalidEntrantCountError) Is(target error) bool {
	return target == ErrInvalidEntrantCount
}

// NewInvalidEntrantCountError builds the error for a field of count entrants.
func NewInvalidEntrantCountError(count int) error {
	return &InvalidEntrantCountError{Count: count, Min: MinFieldSize}
}

// InconsistentConfigError reports weights or ticket arithmetic that do not balance.
type InconsistentConfigError struct {
	Component string
	Detail    string
}

func (e *InconsistentConfigError) Error() string {
	return fmt.Sprintf("inconsistent %s: %s", e.Component, e.Detail)
}

func (e *InconsistentConfigError) Is(target error) bool {
	return target == ErrInconsistentConfig
}

// NewInconsistentConfigError formats an InconsistentConfigError.
func NewInconsistentConfigError(component, format string, args ...interface{}) error {
	return &InconsistentConfigError{Component: component, Detail: fmt.Sprintf(format, args...)}
}

// MLUnavailableError records why the ML oracle could not supply probabilities.
// It never fails a request; it selects the fallback regime.
type MLUnavailableError struct {
	Reason string
	Err    error
}

func (e *MLUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ml unavailable (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ml unavailable (%s)", e.Reason)
}

func (e *MLUnavailableError) Unwrap() error {
	return e.Err
}

func (e *MLUnavailableError) Is(target error) bool {
	return target == ErrMLUnavailable
}
