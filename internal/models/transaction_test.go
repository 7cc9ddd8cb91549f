package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Predicates(t *testing.T) {
	tests := []struct {
		name        string
		tx          Transaction
		expense     bool
		categorized bool
		amount      string
	}{
		{"outflow", Transaction{Amount: decimal.RequireFromString("-10")}, true, false, "-10.00"},
		{"inflow categorized", Transaction{Amount: decimal.RequireFromString("2500.5"), Category: "Salary"}, false, true, "2500.50"},
		{"zero", Transaction{Amount: decimal.Zero}, false, false, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expense, tt.tx.IsExpense())
			assert.Equal(t, tt.categorized, tt.tx.IsCategorized())
			assert.Equal(t, tt.amount, tt.tx.AmountString())
		})
	}
}

func TestTransaction_WithProvenance(t *testing.T) {
	orig := Transaction{ID: "1"}
	tagged := orig.WithProvenance("march.csv", SourceUploaded)

	assert.Equal(t, "march.csv", tagged.File)
	assert.Equal(t, SourceUploaded, tagged.Source)
	assert.Empty(t, orig.File)
}

func TestCategorizationStats(t *testing.T) {
	var stats CategorizationStats
	stats.Record("Supermarkt")
	stats.Record(CategoryUncategorized)
	stats.Record("")
	stats.Record("Amazon")

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Categorized)
	assert.Equal(t, 2, stats.Uncategorized)
	assert.InDelta(t, 50.0, stats.SuccessRate(), 0.001)
	assert.Zero(t, CategorizationStats{}.SuccessRate())
}
