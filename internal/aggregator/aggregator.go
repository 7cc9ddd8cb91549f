// Package aggregator rolls categorized transactions up into yearly, monthly
// and per-category spending totals. Every function is pure and returns
// sorted output.
package aggregator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/expense-app/internal/dateutils"
	"fjacquet/expense-app/internal/models"
)

// Expense is an outflow with its date resolved. Amount is the magnitude.
type Expense struct {
	Transaction models.Transaction
	Date        time.Time
	Year        int
	Month       string
	Category    string
	Amount      decimal.Decimal
}

// YearlyTotal is the spending of one category in one year.
type YearlyTotal struct {
	Year     int             `json:"year"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryTotal is the spending of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryAverage is the average monthly spending of one category.
type CategoryAverage struct {
	Category string          `json:"category"`
	Average  decimal.Decimal `json:"average"`
	Months   int             `json:"months"`
}

// Expenses keeps the negative transactions, resolving dates day first.
// Transactions whose date cannot be parsed are dropped and counted.
func Expenses(txs []models.Transaction) ([]Expense, int) {
	expenses := make([]Expense, 0, len(txs))
	skipped := 0
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		date, err := dateutils.ParseDate(tx.Date)
		if err != nil {
			skipped++
			continue
		}
		category := tx.Category
		if category == "" {
			category = models.CategoryUncategorized
		}
		expenses = append(expenses, Expense{
			Transaction: tx,
			Date:        date,
			Year:        date.Year(),
			Month:       dateutils.MonthKey(date),
			Category:    category,
			Amount:      tx.Amount.Abs(),
		})
	}
	return expenses, skipped
}

// Window keeps the expenses whose month lies in [from, to]. Empty bounds are open.
func Window(expenses []Expense, from, to string) []Expense {
	kept := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if from != "" && e.Month < from {
			continue
		}
		if to != "" && e.Month > to {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// YearlyTotals sums expenses per year and category, sorted by year then category.
func YearlyTotals(expenses []Expense) []YearlyTotal {
	type key struct {
		year     int
		category string
	}
	sums := make(map[key]decimal.Decimal)
	for _, e := range expenses {
		k := key{e.Year, e.Category}
		sums[k] = sums[k].Add(e.Amount)
	}

	totals := make([]YearlyTotal, 0, len(sums))
	for k, total := range sums {
		totals = append(totals, YearlyTotal{Year: k.year, Category: k.category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// MonthlyTotals sums the expenses of one "YYYY-MM" month per category,
// sorted by category.
func MonthlyTotals(expenses []Expense, month string) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e.Month == month {
			sums[e.Category] = sums[e.Category].Add(e.Amount)
		}
	}

	totals := toCategoryTotals(sums)
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// CategoryTotals sums expenses per category, largest first.
func CategoryTotals(expenses []Expense) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	totals := toCategoryTotals(sums)
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// AveragePerMonth divides each category total by the number of distinct
// months present in expenses, rounded to cents. Sorted by category.
func AveragePerMonth(expenses []Expense) []CategoryAverage {
	months := len(Months(expenses))
	if months == 0 {
		return []CategoryAverage{}
	}

	divisor := decimal.NewFromInt(int64(months))
	totals := CategoryTotals(expenses)
	averages := make([]CategoryAverage, 0, len(totals))
	for _, t := range totals {
		averages = append(averages, CategoryAverage{
			Category: t.Category,
			Average:  t.Total.Div(divisor).Round(2),
			Months:   months,
		})
	}
	sort.Slice(averages, func(i, j int) bool {
		return averages[i].Category < averages[j].Category
	})
	return averages
}

// Months lists the distinct "YYYY-MM" months, newest first.
func Months(expenses []Expense) []string {
	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, e := range expenses {
		if _, ok := seen[e.Month]; ok {
			continue
		}
		seen[e.Month] = struct{}{}
		months = append(months, e.Month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

func toCategoryTotals(sums map[string]decimal.Decimal) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(sums))
	for category, total := range sums {
		totals = append(totals, CategoryTotal{Category: category, Total: total})
	}
	return totals
}
