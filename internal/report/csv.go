package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"fjacquet/expense-app/internal/aggregator"
	"fjacquet/expense-app/internal/models"
)

// Delimiter separates fields in exported CSV files.
const Delimiter = ','

// TransactionRow is the CSV layout of an exported transaction.
type TransactionRow struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
	Type        string `csv:"Type"`
	File        string `csv:"File"`
	Source      string `csv:"Source"`
}

// CategoryRow is the CSV layout of a per-category total.
type CategoryRow struct {
	Category string `csv:"Category"`
	Amount   string `csv:"Amount"`
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	return cw
}

// TransactionRows converts transactions to their CSV layout.
func TransactionRows(txs []models.Transaction) []TransactionRow {
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, TransactionRow{
			ID:          tx.ID,
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.AmountString(),
			Category:    tx.Category,
			Type:        tx.Type,
			File:        tx.File,
			Source:      string(tx.Source),
		})
	}
	return rows
}

// WriteTransactionsCSV writes transactions with a header row.
func WriteTransactionsCSV(w io.Writer, txs []models.Transaction) error {
	rows := TransactionRows(txs)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(newWriter(w))); err != nil {
		return fmt.Errorf("error writing transactions CSV: %w", err)
	}
	return nil
}

// WriteCategoryCSV writes per-category totals, e.g. one month of spending.
func WriteCategoryCSV(w io.Writer, totals []aggregator.CategoryTotal) error {
	rows := make([]CategoryRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, CategoryRow{Category: t.Category, Amount: t.Total.StringFixed(2)})
	}
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(newWriter(w))); err != nil {
		return fmt.Errorf("error writing category CSV: %w", err)
	}
	return nil
}

// Pivot is the year by category table of yearly totals.
type Pivot struct {
	Categories []string
	Years      []int
	Cells      map[int]map[string]decimal.Decimal
}

// YearlyPivot lays yearly totals out with one row per year and one column per
// category. Missing cells are zero.
func YearlyPivot(totals []aggregator.YearlyTotal) Pivot {
	p := Pivot{Cells: make(map[int]map[string]decimal.Decimal)}
	seenCategory := make(map[string]struct{})
	for _, t := range totals {
		if _, ok := p.Cells[t.Year]; !ok {
			p.Cells[t.Year] = make(map[string]decimal.Decimal)
			p.Years = append(p.Years, t.Year)
		}
		p.Cells[t.Year][t.Category] = p.Cells[t.Year][t.Category].Add(t.Total)
		if _, ok := seenCategory[t.Category]; !ok {
			seenCategory[t.Category] = struct{}{}
			p.Categories = append(p.Categories, t.Category)
		}
	}
	sort.Ints(p.Years)
	sort.Strings(p.Categories)
	return p
}

// Header returns the header row: "Year" followed by the categories.
func (p Pivot) Header() []string {
	return append([]string{"Year"}, p.Categories...)
}

// Rows returns one row per year with amounts formatted to cents.
func (p Pivot) Rows() [][]string {
	rows := make([][]string, 0, len(p.Years))
	for _, year := range p.Years {
		row := []string{strconv.Itoa(year)}
		for _, c := range p.Categories {
			row = append(row, p.Cells[year][c].StringFixed(2))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteYearlyPivotCSV writes the yearly pivot table. Its columns depend on the
// categories present, so it is written record by record instead of through
// struct tags.
func WriteYearlyPivotCSV(w io.Writer, totals []aggregator.YearlyTotal) error {
	p := YearlyPivot(totals)
	cw := newWriter(w)
	if err := cw.Write(p.Header()); err != nil {
		return fmt.Errorf("error writing pivot header: %w", err)
	}
	if err := cw.WriteAll(p.Rows()); err != nil {
		return fmt.Errorf("error writing pivot rows: %w", err)
	}
	return nil
}
