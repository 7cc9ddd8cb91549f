package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fjacquet/expense-app/internal/aggregator"
	"fjacquet/expense-app/internal/models"
)

// Sheet names of the exported workbook, in order.
const (
	SheetYearly       = "Yearly"
	SheetMonthly      = "Monthly"
	SheetCategories   = "Categories"
	SheetTransactions = "Transactions"
)

// WriteWorkbook writes a workbook with the yearly pivot, the monthly totals,
// the category distribution and the transactions.
func WriteWorkbook(w io.Writer, summary aggregator.Summary, txs []models.Transaction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetYearly); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}
	for _, name := range []string{SheetMonthly, SheetCategories, SheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("error creating sheet %s: %w", name, err)
		}
	}

	pivot := YearlyPivot(summary.Yearly)
	yearly := [][]interface{}{toCells(pivot.Header())}
	for _, year := range pivot.Years {
		row := []interface{}{year}
		for _, c := range pivot.Categories {
			row = append(row, pivot.Cells[year][c].InexactFloat64())
		}
		yearly = append(yearly, row)
	}

	monthly := [][]interface{}{{"Month", "Category", "Amount"}}
	for _, month := range summary.Months {
		for _, t := range summary.Monthly[month] {
			monthly = append(monthly, []interface{}{month, t.Category, t.Total.InexactFloat64()})
		}
	}

	averages := make(map[string]aggregator.CategoryAverage, len(summary.Averages))
	for _, a := range summary.Averages {
		averages[a.Category] = a
	}
	categories := [][]interface{}{{"Category", "Total", "Average per month"}}
	for _, t := range summary.Categories {
		categories = append(categories, []interface{}{t.Category, t.Total.InexactFloat64(), averages[t.Category].Average.InexactFloat64()})
	}

	transactions := [][]interface{}{{"ID", "Date", "Description", "Amount", "Category", "Type", "File", "Source"}}
	for _, tx := range txs {
		transactions = append(transactions, []interface{}{
			tx.ID, tx.Date, tx.Description, tx.Amount.InexactFloat64(), tx.Category, tx.Type, tx.File, string(tx.Source),
		})
	}

	for sheet, rows := range map[string][][]interface{}{
		SheetYearly:       yearly,
		SheetMonthly:      monthly,
		SheetCategories:   categories,
		SheetTransactions: transactions,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
