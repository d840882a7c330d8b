// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidLeg      = errors.New("invalid leg")
	ErrEmptyPortfolio  = errors.New("empty portfolio")
	ErrUndefinedSlope  = errors.New("undefined slope")
	ErrBookNotFound    = errors.New("book not found")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrDatabaseError   = errors.New("database error")
	ErrInputValidation = errors.New("input validation failed")
)

// InvalidLegError is returned when a leg fails entry validation. It matches
// ErrInvalidLeg with errors.Is.
type InvalidLegError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidLegError) Error() string {
	return fmt.Sprintf("invalid leg: %s (%v) %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidLegError) Unwrap() error {
	return ErrInvalidLeg
}

// NewInvalidLegError creates a new InvalidLegError.
func NewInvalidLegError(field string, value interface{}, reason string) *InvalidLegError {
	return &InvalidLegError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// SlopeError reports an interval whose slope is zero where a root was sought.
type SlopeError struct {
	Interval int
	Lower    float64
	Upper    float64
}

func (e *SlopeError) Error() string {
	return fmt.Sprintf("undefined slope in interval %d [%g, %g]", e.Interval, e.Lower, e.Upper)
}

func (e *SlopeError) Unwrap() error {
	return ErrUndefinedSlope
}

// NewSlopeError creates a new SlopeError.
func NewSlopeError(interval int, lower, upper float64) *SlopeError {
	return &SlopeError{
		Interval: interval,
		Lower:    lower,
		Upper:    upper,
	}
}

// RowError attaches a source row number to an import failure.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError.
func NewRowError(row int, err error) *RowError {
	return &RowError{Row: row, Err: err}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Book     string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Book, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Book, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, book, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Book:     book,
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
