package parsererror

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	inner := strconv.ErrSyntax
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "with line",
			err:      &ParseError{Parser: "csv", Line: 4, Field: "amount", Value: "abc", Err: inner},
			expected: "csv: line 4: failed to parse amount='abc': invalid syntax",
		},
		{
			name:     "without line",
			err:      &ParseError{Parser: "pdf", Field: "date", Value: "", Err: inner},
			expected: "pdf: failed to parse date='': invalid syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.True(t, errors.Is(tt.err, inner))
		})
	}
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name:     "minimal",
			err:      &InvalidFormatError{Msg: "no amount column"},
			expected: "invalid format: no amount column",
		},
		{
			name: "full",
			err: &InvalidFormatError{
				FilePath:             "march.csv",
				Msg:                  "required columns not found",
				Missing:              []string{"date", "description"},
				ExpectedFormat:       "CSV with date, description and amount columns",
				ActualContentSnippet: "Betrag;Foo",
			},
			expected: "invalid format in file 'march.csv': required columns not found (missing: date, description). " +
				"Expected: CSV with date, description and amount columns. Content snippet: 'Betrag;Foo'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestInvalidFormatError_AsAndUnwrap(t *testing.T) {
	var err error = &InvalidFormatError{Msg: "empty", Err: ErrNoHeader}

	var target *InvalidFormatError
	assert.True(t, errors.As(err, &target))
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestDataExtractionError(t *testing.T) {
	err := &DataExtractionError{FieldName: "amount", Reason: "no amount token", RawDataSnippet: "01.02.2024 Coop"}
	assert.Equal(t, "data extraction failed for field 'amount': no amount token. Raw data snippet: '01.02.2024 Coop'", err.Error())

	err = &DataExtractionError{FieldName: "date", Reason: "no date token"}
	assert.Equal(t, "data extraction failed for field 'date': no date token", err.Error())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "rules.max_backups", Reason: "must be positive"}
	assert.Equal(t, "validation failed for rules.max_backups: must be positive", err.Error())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet("  abc ", 5))
	assert.Equal(t, "abcde...", Snippet("abcdefgh", 5))
	assert.Equal(t, "äöü...", Snippet("äöüßx", 3))
}
