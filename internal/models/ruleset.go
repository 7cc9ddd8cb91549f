package models

import (
	"sort"
	"strings"
)

// Rule is a curated keyword set for one category.
type Rule struct {
	Category string   `json:"category" yaml:"category"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// RuleSet is the persisted categorization state: ordered rules plus learned mappings.
type RuleSet struct {
	Mappings map[string]string `json:"mappings" yaml:"mappings"`
	Rules    []Rule            `json:"rules" yaml:"rules"`
}

// NewRuleSet returns an empty, ready to use RuleSet.
func NewRuleSet() RuleSet {
	return RuleSet{
		Mappings: make(map[string]string),
		Rules:    []Rule{},
	}
}

// Clone returns a deep copy.
func (rs RuleSet) Clone() RuleSet {
	out := RuleSet{
		Mappings: make(map[string]string, len(rs.Mappings)),
		Rules:    make([]Rule, len(rs.Rules)),
	}
	for k, v := range rs.Mappings {
		out.Mappings[k] = v
	}
	for i, r := range rs.Rules {
		out.Rules[i] = Rule{
			Category: r.Category,
			Keywords: append([]string(nil), r.Keywords...),
		}
	}
	return out
}

// Normalize makes nil collections empty and case-folds mapping keys.
// Hand-edited files may contain keys that fold to the same value: a key
// already in folded form wins, otherwise the first key in sorted order.
func (rs *RuleSet) Normalize() {
	if rs.Rules == nil {
		rs.Rules = []Rule{}
	}
	keys := make([]string, 0, len(rs.Mappings))
	for k := range rs.Mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := make(map[string]string, len(rs.Mappings))
	folded := make(map[string]bool, len(rs.Mappings))
	for _, k := range keys {
		key := NormalizeKeyword(k)
		if key == "" {
			continue
		}
		exact := k == key
		if prevExact, seen := folded[key]; seen && (prevExact || !exact) {
			continue
		}
		normalized[key] = rs.Mappings[k]
		folded[key] = exact
	}
	rs.Mappings = normalized
	for i := range rs.Rules {
		if rs.Rules[i].Keywords == nil {
			rs.Rules[i].Keywords = []string{}
		}
	}
}

// RuleIndex returns the index of the first rule for category, or -1.
func (rs RuleSet) RuleIndex(category string) int {
	for i, r := range rs.Rules {
		if r.Category == category {
			return i
		}
	}
	return -1
}

// NormalizeKeyword trims and lower-cases a keyword.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// NormalizeKeywords case-folds keywords, dropping blanks and repeats while
// keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	return MergeKeywords(nil, keywords)
}

// MergeKeywords appends the normalized additions to existing, skipping any
// keyword already present. existing is not modified.
func MergeKeywords(existing, additions []string) []string {
	out := make([]string, 0, len(existing)+len(additions))
	seen := make(map[string]struct{}, len(existing)+len(additions))
	for _, list := range [][]string{existing, additions} {
		for _, kw := range list {
			k := NormalizeKeyword(kw)
			if k == "" {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
