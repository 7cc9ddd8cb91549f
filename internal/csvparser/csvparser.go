// Package csvparser reads delimited bank statement exports of unknown
// delimiter, encoding and column naming.
package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/parser"
	"fjacquet/expense-app/internal/parsererror"
)

// Name is reported in parser.Report.Parser.
const Name = "CSV"

const snippetLength = 80

// Parser implements parser.Parser for CSV statements.
type Parser struct {
	parser.BaseParser
}

// New creates a CSV parser.
func New(logger logging.Logger, opts parser.Options) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(logger, opts)}
}

// Name implements parser.Parser.
func (p *Parser) Name() string {
	return Name
}

// Parse implements parser.Parser.
func (p *Parser) Parse(r io.Reader) *parser.Report {
	report := p.parse(r)
	p.LogSummary(report)
	return report
}

func (p *Parser) parse(r io.Reader) *parser.Report {
	data, err := io.ReadAll(r)
	if err != nil {
		return parser.Reject(Name, fmt.Errorf("error reading statement: %w", err))
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return parser.Reject(Name, &parsererror.InvalidFormatError{
			ExpectedFormat: Name,
			Msg:            "empty statement",
			Err:            parsererror.ErrNoHeader,
		})
	}

	fmtInfo, err := sniff(data)
	if err != nil {
		preview, _ := decodeWindows1252(data)
		return parser.Reject(Name, &parsererror.InvalidFormatError{
			ExpectedFormat:       "CSV with ';' or ',' delimiter and an amount column",
			ActualContentSnippet: parsererror.Snippet(firstLine(preview), snippetLength),
			Msg:                  err.Error(),
			Err:                  err,
		})
	}

	reader := newReader(fmtInfo.text, fmtInfo.delimiter)
	header, err := reader.Read()
	if err != nil {
		return parser.Reject(Name, fmt.Errorf("error reading header: %w", err))
	}

	cols, missing := parser.ResolveColumns(header)
	if len(missing) > 0 {
		return parser.Reject(Name, &parsererror.InvalidFormatError{
			ExpectedFormat:       "statement with date, description and amount columns",
			ActualContentSnippet: parsererror.Snippet(strings.Join(header, string(fmtInfo.delimiter)), snippetLength),
			Missing:              missing,
			Msg:                  "required columns not found",
		})
	}

	report := &parser.Report{
		Parser:    Name,
		Delimiter: string(fmtInfo.delimiter),
		Encoding:  fmtInfo.encoding,
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				report.Rows = append(report.Rows, parser.RowResult{
					Line:   csvErr.Line,
					Status: parser.RowSkipped,
					Reason: csvErr.Err.Error(),
				})
				continue
			}
			report.Err = fmt.Errorf("error reading statement: %w", err)
			return report
		}

		line, _ := reader.FieldPos(0)
		report.Rows = append(report.Rows, p.BuildRow(Name, line, cols.Raw(record)))
	}

	return report
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
