package categorizer

import (
	"sort"

	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/textutils"
)

// CategorizationStrategy is one tier of the lookup chain.
type CategorizationStrategy interface {
	// Match returns the category and keyword of the first hit in rs.
	Match(description string, rs models.RuleSet) (category, keyword string, found bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// RuleStrategy walks the curated rules in stored order, and each rule's
// keywords in order.
type RuleStrategy struct{}

// Name returns the name of this strategy for logging and debugging.
func (RuleStrategy) Name() string { return "Rule" }

// Match returns the first rule with a whole-word keyword hit.
func (RuleStrategy) Match(description string, rs models.RuleSet) (string, string, bool) {
	for _, rule := range rs.Rules {
		for _, keyword := range rule.Keywords {
			if textutils.ContainsWholeWord(description, keyword) {
				return rule.Category, keyword, true
			}
		}
	}
	return "", "", false
}

// MappingStrategy checks the learned keyword mappings. Longer keywords are
// tried first so "amazon prime" beats "amazon"; ties are broken
// lexicographically so the result never depends on map iteration order.
type MappingStrategy struct{}

// Name returns the name of this strategy for logging and debugging.
func (MappingStrategy) Name() string { return "Mapping" }

// Match returns the mapping of the first matching keyword.
func (MappingStrategy) Match(description string, rs models.RuleSet) (string, string, bool) {
	for _, keyword := range orderedMappingKeys(rs.Mappings) {
		if textutils.ContainsWholeWord(description, keyword) {
			return rs.Mappings[keyword], keyword, true
		}
	}
	return "", "", false
}

func orderedMappingKeys(mappings map[string]string) []string {
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
