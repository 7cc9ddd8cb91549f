package categorizer

import "fjacquet/expense-app/internal/models"

// RuleStore is the part of the category store the categorizer depends on.
// store.CategoryStore and store.MemoryStore both satisfy it.
type RuleStore interface {
	Snapshot() models.RuleSet
	Mutate(fn func(*models.RuleSet) bool) (bool, error)
}
