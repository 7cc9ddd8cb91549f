package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fjacquet/expense-app/internal/categorizer"
	"fjacquet/expense-app/internal/factory"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/parser"
	"fjacquet/expense-app/internal/pdfparser"
	"fjacquet/expense-app/internal/pipeline"
	"fjacquet/expense-app/internal/store"
)

var statementRows = [][]string{
	{"15.03.2024", "REWE Filiale 123", "-45,67"},
	{"16.03.2024", "AMAZON.DE MARKETPLACE", "-19,99"},
	{"17.03.2024", "Vormerkung Tankstelle", "-60,00"},
	{"18.03.2024", "Lohn März", "3200,00"},
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	content := "Buchungstag;Verwendungszweck;Betrag\n"
	for _, row := range statementRows {
		content += row[0] + ";" + row[1] + ";" + row[2] + "\n"
	}
	path := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeXLSX(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	rows := append([][]string{{"Buchungstag", "Verwendungszweck", "Betrag"}}, statementRows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := []interface{}{row[0], row[1], row[2]}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	path := filepath.Join(dir, "statement.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writePDF(t *testing.T, dir string) (string, *pdfparser.MockPDFExtractor) {
	t.Helper()
	var text string
	for _, row := range statementRows {
		text += row[0] + " " + row[1] + " " + row[2] + "\n"
	}
	path := filepath.Join(dir, "statement.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	return path, &pdfparser.MockPDFExtractor{MockText: text}
}

func newRuleStore() *store.MemoryStore {
	rs := models.NewRuleSet()
	rs.Rules = []models.Rule{
		{Category: "Supermarkt", Keywords: []string{"rewe"}},
		{Category: "Amazon", Keywords: []string{"amazon"}},
	}
	return store.NewMemoryStore(rs)
}

// The same statement exported as CSV, XLSX and PDF must yield the same
// transactions, identities included.
func TestCrossFormatConsistency(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewMockLogger()
	csvPath := writeCSV(t, dir)
	xlsxPath := writeXLSX(t, dir)
	pdfPath, extractor := writePDF(t, dir)

	f := factory.New(logger, parser.DefaultOptions(), extractor)

	var reports []*parser.Report
	for _, path := range []string{csvPath, xlsxPath, pdfPath} {
		report, err := f.ParseFile(path)
		require.NoError(t, err, path)
		require.NoError(t, report.Err, path)
		reports = append(reports, report)
	}

	want := reports[0].Transactions()
	require.Len(t, want, 3, "the pending booking is excluded")
	for _, report := range reports {
		accepted, skipped, excluded := report.Counts()
		assert.Equal(t, 3, accepted, report.Parser)
		assert.Equal(t, 0, skipped, report.Parser)
		assert.Equal(t, 1, excluded, report.Parser)

		got := report.Transactions()
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID, report.Parser)
			assert.Equal(t, want[i].Date, got[i].Date, report.Parser)
			assert.Equal(t, want[i].Description, got[i].Description, report.Parser)
			assert.True(t, want[i].Amount.Equal(got[i].Amount), report.Parser)
		}
	}
}

func TestPipelineAcrossFormats(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewMockLogger()
	csvPath := writeCSV(t, dir)
	xlsxPath := writeXLSX(t, dir)
	pdfPath, extractor := writePDF(t, dir)

	st := newRuleStore()
	p := pipeline.New(
		factory.New(logger, parser.DefaultOptions(), extractor),
		categorizer.NewCategorizer(st, logger),
		st,
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(2))

	inputs := append(pipeline.Inputs(models.SourceScanned, csvPath, xlsxPath),
		pipeline.Inputs(models.SourceUploaded, pdfPath)...)
	result, err := p.Run(context.Background(), inputs)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 3)
	assert.Equal(t, 6, result.Duplicates)
	for _, tx := range result.Transactions {
		assert.Equal(t, "statement.csv", tx.File)
		assert.Equal(t, models.SourceScanned, tx.Source)
	}

	categories := []string{}
	for _, tx := range result.Transactions {
		categories = append(categories, tx.Category)
	}
	assert.Equal(t, []string{"Supermarkt", "Amazon", models.CategoryUncategorized}, categories)
	assert.Equal(t, "65.66", result.Summary.TotalSpent.StringFixed(2))
	assert.Equal(t, 2, result.Summary.Categorized)
}
