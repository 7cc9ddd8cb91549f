// Package categorizer assigns spending categories to transactions.
//
// Lookup is a two-tier, first-match-wins chain: curated rules first, then
// keyword mappings learned from user corrections. Keywords match whole words
// only. All mutations go through the RuleStore so every change is persisted
// before it becomes visible.
package categorizer

import (
	"sort"
	"strings"

	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/textutils"
)

// Categorizer suggests categories and edits the rule set.
type Categorizer struct {
	store      RuleStore
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// NewCategorizer creates a Categorizer backed by store.
func NewCategorizer(store RuleStore, logger logging.Logger) *Categorizer {
	return &Categorizer{
		store:      store,
		strategies: []CategorizationStrategy{RuleStrategy{}, MappingStrategy{}},
		logger:     logging.OrDefault(logger),
	}
}

//------------------------------------------------------------------------------
// LOOKUP
//------------------------------------------------------------------------------

// SuggestCategory returns the category for description, or
// models.CategoryUncategorized when nothing matches.
func (c *Categorizer) SuggestCategory(description string) string {
	return c.Explain(description).Category
}

// Explain returns the category for description together with the strategy
// and keyword that produced it.
func (c *Categorizer) Explain(description string) Match {
	rs := c.store.Snapshot()
	return c.explain(description, rs)
}

func (c *Categorizer) explain(description string, rs models.RuleSet) Match {
	for _, strategy := range c.strategies {
		if category, keyword, found := strategy.Match(description, rs); found {
			c.logger.Debug("Transaction categorized",
				logging.Field{Key: "strategy", Value: strategy.Name()},
				logging.Field{Key: logging.FieldKeyword, Value: keyword},
				logging.Field{Key: logging.FieldCategory, Value: category})
			return Match{Category: category, Strategy: strategy.Name(), Keyword: keyword}
		}
	}
	return noMatch()
}

// Categorize returns tx with its category assigned.
func (c *Categorizer) Categorize(tx models.Transaction) models.Transaction {
	tx.Category = c.SuggestCategory(tx.Description)
	return tx
}

// CategorizeAll categorizes every transaction against a single snapshot of
// the rule set and returns new transactions in the same order.
func (c *Categorizer) CategorizeAll(txs []models.Transaction) []models.Transaction {
	rs := c.store.Snapshot()
	out := make([]models.Transaction, len(txs))
	var stats models.CategorizationStats
	for i, tx := range txs {
		tx.Category = c.explain(tx.Description, rs).Category
		stats.Record(tx.Category)
		out[i] = tx
	}
	if len(txs) > 0 {
		stats.LogSummary(c.logger)
	}
	return out
}

// ExtractKeyword suggests a mapping key for description: its first two
// whitespace-separated tokens, lower-cased.
func (c *Categorizer) ExtractKeyword(description string) string {
	return strings.ToLower(textutils.FirstTokens(description, 2))
}

//------------------------------------------------------------------------------
// READ VIEWS
//------------------------------------------------------------------------------

// Rules returns the curated rules in stored order.
func (c *Categorizer) Rules() []models.Rule {
	return c.store.Snapshot().Rules
}

// Mappings returns the learned keyword mappings.
func (c *Categorizer) Mappings() map[string]string {
	return c.store.Snapshot().Mappings
}

// GetAllCategories returns the sorted union of rule categories, mapping
// targets and the default categories.
func (c *Categorizer) GetAllCategories() []string {
	rs := c.store.Snapshot()
	set := make(map[string]struct{}, len(models.DefaultCategories)+len(rs.Rules)+len(rs.Mappings))
	for _, name := range models.DefaultCategories {
		set[name] = struct{}{}
	}
	for _, rule := range rs.Rules {
		set[rule.Category] = struct{}{}
	}
	for _, category := range rs.Mappings {
		set[category] = struct{}{}
	}

	categories := make([]string, 0, len(set))
	for name := range set {
		if name != "" {
			categories = append(categories, name)
		}
	}
	sort.Strings(categories)
	return categories
}

//------------------------------------------------------------------------------
// MUTATIONS
//------------------------------------------------------------------------------

// apply runs fn through the store. Store errors are returned verbatim.
func (c *Categorizer) apply(operation string, fn func(*models.RuleSet) Outcome) (Outcome, error) {
	var outcome Outcome
	_, err := c.store.Mutate(func(rs *models.RuleSet) bool {
		outcome = fn(rs)
		return outcome.Changed
	})
	if err != nil {
		c.logger.WithError(err).Error("Failed to persist rules",
			logging.Field{Key: logging.FieldOperation, Value: operation})
		return Outcome{}, err
	}
	if !outcome.Changed {
		c.logger.Debug("Rule change not applied",
			logging.Field{Key: logging.FieldOperation, Value: operation},
			logging.Field{Key: logging.FieldReason, Value: outcome.Reason})
	}
	return outcome, nil
}

// AddMapping stores keyword -> category, replacing any previous mapping.
func (c *Categorizer) AddMapping(keyword, category string) (Outcome, error) {
	key := models.NormalizeKeyword(keyword)
	category = strings.TrimSpace(category)
	if key == "" || category == "" {
		return rejected("keyword and category must not be empty"), nil
	}
	return c.apply("add_mapping", func(rs *models.RuleSet) Outcome {
		rs.Mappings[key] = category
		return applied
	})
}

// DeleteMapping removes a mapping. Unknown keywords are a no-op.
func (c *Categorizer) DeleteMapping(keyword string) (Outcome, error) {
	key := models.NormalizeKeyword(keyword)
	return c.apply("delete_mapping", func(rs *models.RuleSet) Outcome {
		if _, ok := rs.Mappings[key]; !ok {
			return rejected("no mapping for keyword %q", key)
		}
		delete(rs.Mappings, key)
		return applied
	})
}

// AddRule merges keywords into the rule for category, creating it at the end
// of the list when it does not exist yet.
func (c *Categorizer) AddRule(keywords []string, category string) (Outcome, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return rejected("category must not be empty"), nil
	}
	return c.apply("add_rule", func(rs *models.RuleSet) Outcome {
		if idx := rs.RuleIndex(category); idx >= 0 {
			rs.Rules[idx].Keywords = models.MergeKeywords(rs.Rules[idx].Keywords, keywords)
			return applied
		}
		rs.Rules = append(rs.Rules, models.Rule{
			Category: category,
			Keywords: models.NormalizeKeywords(keywords),
		})
		return applied
	})
}

// DeleteRule removes every rule for category.
func (c *Categorizer) DeleteRule(category string) (Outcome, error) {
	return c.apply("delete_rule", func(rs *models.RuleSet) Outcome {
		kept := rs.Rules[:0]
		for _, rule := range rs.Rules {
			if rule.Category != category {
				kept = append(kept, rule)
			}
		}
		if len(kept) == len(rs.Rules) {
			return rejected("no rule for category %q", category)
		}
		rs.Rules = kept
		return applied
	})
}

// UpdateRuleKeywords replaces the keywords of an existing rule.
func (c *Categorizer) UpdateRuleKeywords(category string, keywords []string) (Outcome, error) {
	return c.apply("update_rule", func(rs *models.RuleSet) Outcome {
		idx := rs.RuleIndex(category)
		if idx < 0 {
			return rejected("no rule for category %q", category)
		}
		rs.Rules[idx].Keywords = models.NormalizeKeywords(keywords)
		return applied
	})
}

// RenameCategory rewrites every rule and mapping pointing at oldName. When a
// rule for newName already exists the two keyword lists are merged into the
// earlier of the two rules.
func (c *Categorizer) RenameCategory(oldName, newName string) (Outcome, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return rejected("new category name must not be empty"), nil
	}
	if newName == oldName {
		return rejected("new category name equals the old one"), nil
	}

	return c.apply("rename_category", func(rs *models.RuleSet) Outcome {
		for keyword, category := range rs.Mappings {
			if category == oldName {
				rs.Mappings[keyword] = newName
			}
		}

		renamed := make([]models.Rule, 0, len(rs.Rules))
		target := -1
		for _, rule := range rs.Rules {
			if rule.Category != oldName && rule.Category != newName {
				renamed = append(renamed, rule)
				continue
			}
			if target < 0 {
				target = len(renamed)
				renamed = append(renamed, models.Rule{Category: newName, Keywords: rule.Keywords})
				continue
			}
			renamed[target].Keywords = models.MergeKeywords(renamed[target].Keywords, rule.Keywords)
		}
		rs.Rules = renamed
		return applied
	})
}

// Learn records a user correction: the keyword extracted from description is
// mapped to category. It returns the keyword used.
func (c *Categorizer) Learn(description, category string) (string, Outcome, error) {
	keyword := c.ExtractKeyword(description)
	if keyword == "" {
		return "", rejected("description has no usable keyword"), nil
	}
	outcome, err := c.AddMapping(keyword, category)
	if err != nil {
		return "", outcome, err
	}
	if outcome.Changed {
		c.logger.Info("Learned mapping",
			logging.Field{Key: logging.FieldKeyword, Value: keyword},
			logging.Field{Key: logging.FieldCategory, Value: category})
	}
	return keyword, outcome, nil
}
