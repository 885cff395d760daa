// Package parsererror defines the typed errors produced while reading and
// parsing message batches. None of them is fatal to a batch.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrMalformedDigits is the cause recorded when a matched digit group cannot
// be converted to a non-negative integer.
var ErrMalformedDigits = errors.New("malformed digit group")

// ErrAmountOverflow is returned when a total leaves the int64 range.
var ErrAmountOverflow = errors.New("amount out of range")

// ParseError represents a field that matched syntactically but could not be
// converted.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid caller input.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents a source that could not be decoded as
// newline-delimited UTF-8 text.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
	Err                  error
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}
