// Package factory selects the statement parser for a file.
package factory

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/expense-app/internal/csvparser"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/parser"
	"fjacquet/expense-app/internal/pdfparser"
	"fjacquet/expense-app/internal/xlsxparser"
)

// ParserType defines the types of parsers available.
type ParserType string

const (
	CSV  ParserType = "csv"
	XLSX ParserType = "xlsx"
	PDF  ParserType = "pdf"
)

var extensions = map[string]ParserType{
	".csv":  CSV,
	".txt":  CSV,
	".xlsx": XLSX,
	".pdf":  PDF,
}

// SupportedExtensions lists the statement file extensions, sorted.
func SupportedExtensions() []string {
	return []string{".csv", ".pdf", ".txt", ".xlsx"}
}

// TypeForFile returns the parser type for a file name based on its extension.
func TypeForFile(name string) (ParserType, error) {
	ext := strings.ToLower(filepath.Ext(name))
	t, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("unsupported statement file type %q", ext)
	}
	return t, nil
}

// Factory builds parsers sharing one logger and one set of options.
type Factory struct {
	logger    logging.Logger
	opts      parser.Options
	extractor pdfparser.PDFExtractor
}

// New creates a Factory. A nil extractor selects the real PDF reader.
func New(logger logging.Logger, opts parser.Options, extractor pdfparser.PDFExtractor) *Factory {
	return &Factory{
		logger:    logging.OrDefault(logger),
		opts:      opts,
		extractor: extractor,
	}
}

// GetParser returns a new instance of the appropriate parser for the given type.
func (f *Factory) GetParser(parserType ParserType) (parser.Parser, error) {
	switch parserType {
	case CSV:
		return csvparser.New(f.logger, f.opts), nil
	case XLSX:
		return xlsxparser.New(f.logger, f.opts), nil
	case PDF:
		return pdfparser.New(f.logger, f.opts, f.extractor), nil
	default:
		return nil, fmt.Errorf("unknown parser type: %s", parserType)
	}
}

// ForFile returns the parser for a file name.
func (f *Factory) ForFile(name string) (parser.Parser, error) {
	t, err := TypeForFile(name)
	if err != nil {
		return nil, err
	}
	return f.GetParser(t)
}

// ParseFile picks the parser for path and parses it.
func (f *Factory) ParseFile(path string) (*parser.Report, error) {
	p, err := f.ForFile(path)
	if err != nil {
		return nil, err
	}
	return parser.ParseFile(p, path)
}
