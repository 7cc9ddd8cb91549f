package aggregator

import (
	"github.com/shopspring/decimal"

	"fjacquet/expense-app/internal/models"
)

// Summary bundles the rollups of one set of transactions.
type Summary struct {
	TotalTransactions int                        `json:"total_transactions"`
	Categorized       int                        `json:"categorized"`
	UndatedExpenses   int                        `json:"undated_expenses"`
	TotalSpent        decimal.Decimal            `json:"total_spent"`
	Months            []string                   `json:"months"`
	Yearly            []YearlyTotal              `json:"yearly"`
	Monthly           map[string][]CategoryTotal `json:"monthly"`
	Categories        []CategoryTotal            `json:"categories"`
	Averages          []CategoryAverage          `json:"averages"`
}

// Summarize computes every rollup for txs. TotalSpent is the magnitude of all
// outflows, including those whose date could not be parsed. A transaction
// counts as categorized when it carries a category other than the fallback.
func Summarize(txs []models.Transaction) Summary {
	expenses, undated := Expenses(txs)

	s := Summary{
		TotalTransactions: len(txs),
		UndatedExpenses:   undated,
		TotalSpent:        decimal.Zero,
		Months:            Months(expenses),
		Yearly:            YearlyTotals(expenses),
		Monthly:           make(map[string][]CategoryTotal),
		Categories:        CategoryTotals(expenses),
		Averages:          AveragePerMonth(expenses),
	}

	for _, tx := range txs {
		if tx.IsExpense() {
			s.TotalSpent = s.TotalSpent.Add(tx.Amount.Abs())
		}
		if tx.IsCategorized() && tx.Category != models.CategoryUncategorized {
			s.Categorized++
		}
	}
	for _, month := range s.Months {
		s.Monthly[month] = MonthlyTotals(expenses, month)
	}
	return s
}
