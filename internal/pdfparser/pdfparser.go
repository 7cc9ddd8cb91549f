// Package pdfparser reads the legacy PDF statement form. The extracted page
// text is scanned line by line: a line holding a day-month-year date and a
// decimal amount becomes a transaction, the text between the two is its
// description.
package pdfparser

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/parser"
	"fjacquet/expense-app/internal/parsererror"
)

// Name is reported in parser.Report.Parser.
const Name = "PDF"

var (
	dateRe = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)
	// Amounts such as "-1.234,56", "45,67-", "1'234.50" or "12.00".
	amountRe = regexp.MustCompile(`(?:^|\s)([-+]?(?:\d{1,3}(?:[.'’]\d{3})+|\d+)[.,]\d{2}-?)(?:\s|$)`)
)

// Parser implements parser.Parser for PDF statements.
type Parser struct {
	parser.BaseParser
	extractor PDFExtractor
}

// New creates a PDF parser. A nil extractor selects RealPDFExtractor.
func New(logger logging.Logger, opts parser.Options, extractor PDFExtractor) *Parser {
	if extractor == nil {
		extractor = NewRealPDFExtractor()
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(logger, opts),
		extractor:  extractor,
	}
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
	text, err := p.extract(r)
	if err != nil {
		return parser.Reject(Name, err)
	}

	report := &parser.Report{Parser: Name, Delimiter: "text", Encoding: "pdf"}
	ignored := 0
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Page headers, footers and column titles carry no date.
		if !dateRe.MatchString(line) {
			ignored++
			continue
		}
		report.Rows = append(report.Rows, p.parseLine(i+1, line))
	}
	if ignored > 0 {
		p.GetLogger().Debug("Ignored PDF lines without a date",
			logging.Field{Key: logging.FieldCount, Value: ignored})
	}
	return report
}

// extract copies the statement into a temporary file for the PDF reader.
func (p *Parser) extract(r io.Reader) (string, error) {
	tempFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			p.GetLogger().WithError(err).Warn("Failed to remove temporary file",
				logging.Field{Key: logging.FieldFile, Value: tempFile.Name()})
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	text, err := p.extractor.ExtractText(tempFile.Name())
	if err != nil {
		return "", &parsererror.InvalidFormatError{
			ExpectedFormat: Name,
			Msg:            "file is not a valid PDF",
			Err:            err,
		}
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

func (p *Parser) parseLine(lineNo int, line string) parser.RowResult {
	raw, err := splitLine(line)
	if err != nil {
		return parser.RowResult{Line: lineNo, Status: parser.RowSkipped, Reason: err.Error()}
	}
	return p.BuildRow(Name, lineNo, raw)
}

// splitLine finds the date and amount tokens of a statement line. The first
// amount after the date is used; when there is none, the last amount before it.
func splitLine(line string) (parser.RawRow, error) {
	dateLoc := dateRe.FindStringIndex(line)
	if dateLoc == nil {
		return parser.RawRow{}, &parsererror.DataExtractionError{
			FieldName:      "date",
			RawDataSnippet: parsererror.Snippet(line, 60),
			Reason:         "no day-month-year date on line",
		}
	}

	var amountLoc []int
	for _, m := range amountRe.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[2], m[3]
		if start < dateLoc[1] && end > dateLoc[0] {
			continue
		}
		if start >= dateLoc[1] {
			amountLoc = []int{start, end}
			break
		}
		amountLoc = []int{start, end}
	}
	if amountLoc == nil {
		return parser.RawRow{}, &parsererror.DataExtractionError{
			FieldName:      "amount",
			RawDataSnippet: parsererror.Snippet(line, 60),
			Reason:         "no decimal amount on line",
		}
	}

	var between string
	if amountLoc[0] >= dateLoc[1] {
		between = line[dateLoc[1]:amountLoc[0]]
	} else {
		between = line[amountLoc[1]:dateLoc[0]]
	}

	return parser.RawRow{
		Date:             line[dateLoc[0]:dateLoc[1]],
		AmountText:       line[amountLoc[0]:amountLoc[1]],
		DescriptionParts: []string{strings.Join(strings.Fields(between), " ")},
	}, nil
}
