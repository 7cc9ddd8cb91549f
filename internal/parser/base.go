// Package parser provides the base parser functionality and common interfaces.
package parser

import (
	"errors"
	"strings"

	"fjacquet/expense-app/internal/currencyutils"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/parsererror"
	"fjacquet/expense-app/internal/textutils"
)

// builtinExclusionMarkers flag bank-internal bookings that are not real spending.
var builtinExclusionMarkers = []string{
	"Währungsumrechnung",
	"Currency Conversion",
	"Vormerkung",
	"Reservierung",
	"Autorisierung",
	"Authorization Hold",
	"Vorautorisierung",
	"Pre-Authorization",
}

// Options tunes row extraction.
type Options struct {
	// MaxDescriptionLength caps the description in runes. Zero means the default.
	MaxDescriptionLength int
	// ExclusionMarkers extend the built-in markers.
	ExclusionMarkers []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{MaxDescriptionLength: models.MaxDescriptionLength}
}

// RawRow holds the textual cells of one row before normalization.
type RawRow struct {
	Date             string
	AmountText       string
	DescriptionParts []string
	SourceID         string
	Type             string
}

// BaseParser provides common functionality for all parser implementations.
//
// Parsers should embed BaseParser to inherit common functionality:
//
//	type MyParser struct {
//		parser.BaseParser
//		// parser-specific fields
//	}
type BaseParser struct {
	logger  logging.Logger
	opts    Options
	markers []string
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, the process default logger is used.
func NewBaseParser(logger logging.Logger, opts Options) BaseParser {
	if opts.MaxDescriptionLength <= 0 {
		opts.MaxDescriptionLength = models.MaxDescriptionLength
	}

	markers := append([]string(nil), builtinExclusionMarkers...)
	for _, m := range opts.ExclusionMarkers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, m)
		}
	}

	return BaseParser{
		logger:  logging.OrDefault(logger),
		opts:    opts,
		markers: markers,
	}
}

// SetLogger replaces the logger.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// ExclusionMarker returns the first marker contained in description.
func (b *BaseParser) ExclusionMarker(description string) (string, bool) {
	for _, m := range b.markers {
		if textutils.ContainsFold(description, m) {
			return m, true
		}
	}
	return "", false
}

// ComposeDescription joins the descriptive parts, dropping placeholders and
// exact repeats. It never returns an empty string.
func ComposeDescription(parts []string) string {
	desc := textutils.JoinDistinct(parts, models.DescriptionSeparator)
	if desc == "" {
		return models.UnknownDescription
	}
	return desc
}

// BuildRow normalizes one raw row. Each row fails on its own: problems are
// recorded in the result instead of aborting the statement.
func (b *BaseParser) BuildRow(parserName string, line int, raw RawRow) RowResult {
	result := RowResult{Line: line}

	date := strings.TrimSpace(raw.Date)
	if textutils.IsNullLike(date) {
		return b.skip(result, "missing date")
	}

	amount, err := currencyutils.ParseAmount(raw.AmountText)
	if err != nil {
		if errors.Is(err, currencyutils.ErrEmptyAmount) {
			return b.skip(result, "missing amount")
		}
		perr := &parsererror.ParseError{Parser: parserName, Line: line, Field: "amount", Value: raw.AmountText, Err: err}
		return b.skip(result, perr.Error())
	}

	description := ComposeDescription(raw.DescriptionParts)
	if marker, excluded := b.ExclusionMarker(description); excluded {
		result.Status = RowExcluded
		result.Reason = "internal booking: " + marker
		b.logger.Debug("Excluded statement row",
			logging.Field{Key: logging.FieldLine, Value: line},
			logging.Field{Key: logging.FieldReason, Value: result.Reason})
		return result
	}

	id := TransactionID(raw.SourceID, date, description, amount)

	tx, err := models.NewTransactionBuilder().
		WithID(id).
		WithDate(date).
		WithDescription(textutils.TruncateRunes(description, b.opts.MaxDescriptionLength)).
		WithAmount(amount).
		WithType(raw.Type).
		Build()
	if err != nil {
		return b.skip(result, err.Error())
	}

	result.Status = RowAccepted
	result.Transaction = tx
	return result
}

func (b *BaseParser) skip(result RowResult, reason string) RowResult {
	result.Status = RowSkipped
	result.Reason = reason
	b.logger.Debug("Skipped statement row",
		logging.Field{Key: logging.FieldLine, Value: result.Line},
		logging.Field{Key: logging.FieldReason, Value: reason})
	return result
}

// LogSummary logs the row counts of a finished report.
func (b *BaseParser) LogSummary(report *Report) {
	if report.Err != nil {
		b.logger.WithError(report.Err).Warn("Statement rejected",
			logging.Field{Key: logging.FieldParser, Value: report.Parser})
		return
	}
	accepted, skipped, excluded := report.Counts()
	b.logger.Info("Parsed statement",
		logging.Field{Key: logging.FieldParser, Value: report.Parser},
		logging.Field{Key: logging.FieldDelimiter, Value: report.Delimiter},
		logging.Field{Key: logging.FieldEncoding, Value: report.Encoding},
		logging.Field{Key: "accepted", Value: accepted},
		logging.Field{Key: "skipped", Value: skipped},
		logging.Field{Key: "excluded", Value: excluded})
}
