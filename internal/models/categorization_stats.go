package models

import (
	"fjacquet/expense-app/internal/logging"
)

// CategorizationStats tracks how a batch of transactions was categorized.
type CategorizationStats struct {
	Total         int
	Categorized   int
	Uncategorized int
}

// Record counts one categorized transaction.
func (cs *CategorizationStats) Record(category string) {
	cs.Total++
	if category == "" || category == CategoryUncategorized {
		cs.Uncategorized++
		return
	}
	cs.Categorized++
}

// SuccessRate returns the share of transactions that matched a rule or mapping, in percent.
func (cs CategorizationStats) SuccessRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Categorized) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of categorization statistics.
func (cs CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "categorized", Value: cs.Categorized},
		logging.Field{Key: "uncategorized", Value: cs.Uncategorized},
		logging.Field{Key: "success_rate", Value: cs.SuccessRate()},
	)
}
