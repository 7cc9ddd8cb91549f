// Package report renders aggregated spending as JSON, CSV and XLSX.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"fjacquet/expense-app/internal/aggregator"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ReportGenerator renders summaries in various formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{
		logger: logging.OrDefault(logger).WithField(logging.FieldComponent, "ReportGenerator"),
	}
}

// GenerateReport renders summary in format. CSV yields the yearly pivot; XLSX
// yields the full workbook including txs.
func (g *ReportGenerator) GenerateReport(summary aggregator.Summary, txs []models.Transaction, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatJSON:
		var data []byte
		data, err = json.MarshalIndent(summary, "", "  ")
		buf.Write(data)
	case FormatCSV:
		err = WriteYearlyPivotCSV(&buf, summary.Yearly)
	case FormatXLSX:
		err = WriteWorkbook(&buf, summary, txs)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}

	if err != nil {
		g.logger.WithError(err).Error("Failed to generate report",
			logging.Field{Key: "format", Value: format})
		return nil, fmt.Errorf("failed to generate %s report: %w", format, err)
	}
	return buf.Bytes(), nil
}

// GenerateMonthReport renders the category totals of one month as CSV.
func (g *ReportGenerator) GenerateMonthReport(summary aggregator.Summary, month string) ([]byte, error) {
	totals, ok := summary.Monthly[month]
	if !ok {
		return nil, fmt.Errorf("no expenses in month %s", month)
	}
	var buf bytes.Buffer
	if err := WriteCategoryCSV(&buf, totals); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
