// Package parsererror defines the typed errors produced while reading statements.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHeader is returned when a statement has no header row at all.
var ErrNoHeader = errors.New("no header row")

// ParseError represents a single cell that could not be converted.
type ParseError struct {
	Parser string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: failed to parse %s='%s': %v",
			e.Parser, e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a configuration or input value that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// InvalidFormatError rejects a whole statement: no delimiter/encoding combination
// was recognized, or a required column could not be resolved.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Missing              []string
	Msg                  string
	Err                  error
}

func (e *InvalidFormatError) Error() string {
	var b strings.Builder
	if e.FilePath != "" {
		fmt.Fprintf(&b, "invalid format in file '%s': %s", e.FilePath, e.Msg)
	} else {
		fmt.Fprintf(&b, "invalid format: %s", e.Msg)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " (missing: %s)", strings.Join(e.Missing, ", "))
	}
	if e.ExpectedFormat != "" {
		fmt.Fprintf(&b, ". Expected: %s", e.ExpectedFormat)
	}
	if e.ActualContentSnippet != "" {
		fmt.Fprintf(&b, ". Content snippet: '%s'", e.ActualContentSnippet)
	}
	return b.String()
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// DataExtractionError reports that a line of an unstructured source (PDF text)
// did not yield the required tokens.
type DataExtractionError struct {
	FilePath       string
	FieldName      string
	RawDataSnippet string
	Reason         string
}

func (e *DataExtractionError) Error() string {
	if e.RawDataSnippet != "" {
		return fmt.Sprintf("data extraction failed for field '%s': %s. Raw data snippet: '%s'",
			e.FieldName, e.Reason, e.RawDataSnippet)
	}
	return fmt.Sprintf("data extraction failed for field '%s': %s", e.FieldName, e.Reason)
}

// Snippet shortens s for inclusion in error messages.
func Snippet(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "..."
}
