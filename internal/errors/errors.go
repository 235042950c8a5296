// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrInsufficientData means no usable candles were supplied for any
	// timeframe. It is the only fatal condition: everything else degrades.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateRisk means ATR was unavailable or zero during setup
	// generation. Callers absorb it and emit an advisory HOLD setup.
	ErrDegenerateRisk = errors.New("degenerate risk: ATR unavailable or zero")
	// ErrSourceUnavailable means one option-chain or price source yielded no
	// usable data. It triggers fallback, never a user-facing failure.
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrUnknownSource     = errors.New("unknown source tag")
)

// SourceError wraps a failure from a single upstream source.
type SourceError struct {
	Source  string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source error [%s]: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("source error [%s]: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, message string, err error) *SourceError {
	return &SourceError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// ParseIssue records one malformed field in a raw option leg. The leg itself
// is kept with the field defaulted to zero; issues are aggregated for
// observability instead of being silently dropped deep in business logic.
type ParseIssue struct {
	Source string
	Strike float64
	Leg    string // "CE" or "PE"
	Field  string
	Reason string
}

func (e *ParseIssue) Error() string {
	return fmt.Sprintf("malformed leg [%s] strike %.2f %s: %s: %s", e.Source, e.Strike, e.Leg, e.Field, e.Reason)
}

// ParseReport aggregates the parse issues of one normalization pass.
type ParseReport struct {
	Source string
	Issues []ParseIssue
}

// Add appends an issue to the report.
func (r *ParseReport) Add(strike float64, leg, field, reason string) {
	r.Issues = append(r.Issues, ParseIssue{
		Source: r.Source,
		Strike: strike,
		Leg:    leg,
		Field:  field,
		Reason: reason,
	})
}

// HasIssues reports whether any issue was recorded.
func (r *ParseReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
