/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All engine error kinds in one place for consistency and discoverability.
  Calculator packages wrap these sentinels with additional context.

ERROR CATEGORIES:
  1. Input errors - Caller bugs (malformed dates, negative counts)
  2. Period errors - Days worked beyond period length, period before hire
  3. Configuration errors - Malformed parameter snapshot at construction
  4. Concept errors - Codes missing from the catalog in strict mode

USAGE:
  Callers branch on error kind with errors.Is:

    if errors.Is(err, engine.ErrInvalidPeriod) {
        // reject the period input
    }

  Structured errors carry the offending field:

    var cfgErr *engine.ConfigurationError
    if errors.As(err, &cfgErr) {
        log.Printf("bad parameter: %s", cfgErr.Field)
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for caller bugs: malformed dates,
	// negative counts, salary below the statutory minimum wage.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPeriod is returned when days worked exceed the period
	// length or the period predates the hire date.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidTermination is returned when a termination date precedes
	// the hire date.
	ErrInvalidTermination = errors.New("termination before hire")

	// ErrInconsistentConcept is returned in strict mode when a concept
	// code has no catalog metadata.
	ErrInconsistentConcept = errors.New("concept missing catalog metadata")

	// ErrConfiguration is returned when the parameter snapshot is
	// malformed. The engine cannot be built on bad parameters.
	ErrConfiguration = errors.New("invalid statutory parameters")

	// ErrOverdrawnVacation marks a vacation request exceeding the accrued
	// balance. This is a validation outcome, not a calculation failure.
	ErrOverdrawnVacation = errors.New("vacation balance overdrawn")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the offending field
// =============================================================================

// ConfigurationError reports a malformed statutory parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid statutory parameters: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// InputError reports an invalid caller-supplied value.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// PeriodError reports an inconsistent period input.
type PeriodError struct {
	Period string
	Reason string
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("invalid period %s: %s", e.Period, e.Reason)
}

func (e *PeriodError) Unwrap() error { return ErrInvalidPeriod }

// ConceptError reports a concept code with no catalog metadata.
type ConceptError struct {
	Code string
}

func (e *ConceptError) Error() string {
	return fmt.Sprintf("concept %q missing catalog metadata", e.Code)
}

func (e *ConceptError) Unwrap() error { return ErrInconsistentConcept }

// OverdrawnVacationError reports a request exceeding the accrued balance.
// The balance itself is never reported negative.
type OverdrawnVacationError struct {
	Accrued   int
	Requested int
}

func (e *OverdrawnVacationError) Error() string {
	return fmt.Sprintf("vacation overdrawn: accrued %d, requested %d", e.Accrued, e.Requested)
}

func (e *OverdrawnVacationError) Unwrap() error { return ErrOverdrawnVacation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine defect.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidTermination) ||
		errors.Is(err, ErrInconsistentConcept)
}
