// Package xlsxparser reads spreadsheet statement exports. Only the first sheet
// is read; its first row is the header.
package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/parser"
	"fjacquet/expense-app/internal/parsererror"
)

// Name is reported in parser.Report.Parser.
const Name = "XLSX"

// Parser implements parser.Parser for XLSX workbooks.
type Parser struct {
	parser.BaseParser
}

// New creates an XLSX parser.
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
	book, err := excelize.OpenReader(r)
	if err != nil {
		return parser.Reject(Name, &parsererror.InvalidFormatError{
			ExpectedFormat: Name,
			Msg:            "file is not a valid workbook",
			Err:            err,
		})
	}
	defer func() {
		if err := book.Close(); err != nil {
			p.GetLogger().WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheet := book.GetSheetName(0)
	rows, err := book.GetRows(sheet)
	if err != nil {
		return parser.Reject(Name, fmt.Errorf("error reading sheet %q: %w", sheet, err))
	}

	headerAt := -1
	for i, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return parser.Reject(Name, &parsererror.InvalidFormatError{
			ExpectedFormat: Name,
			Msg:            "empty sheet " + sheet,
			Err:            parsererror.ErrNoHeader,
		})
	}

	header := rows[headerAt]
	cols, missing := parser.ResolveColumns(header)
	if len(missing) > 0 {
		return parser.Reject(Name, &parsererror.InvalidFormatError{
			ExpectedFormat:       "statement with date, description and amount columns",
			ActualContentSnippet: parsererror.Snippet(strings.Join(header, ", "), 80),
			Missing:              missing,
			Msg:                  "required columns not found",
		})
	}

	report := &parser.Report{Parser: Name, Delimiter: "xlsx", Encoding: "xlsx"}
	for i := headerAt + 1; i < len(rows); i++ {
		if strings.TrimSpace(strings.Join(rows[i], "")) == "" {
			continue
		}
		// Spreadsheet rows are 1-based.
		report.Rows = append(report.Rows, p.BuildRow(Name, i+1, cols.Raw(rows[i])))
	}
	return report
}
