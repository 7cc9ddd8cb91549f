package categorizer

import (
	"fmt"

	"fjacquet/expense-app/internal/models"
)

// Match explains how a description was categorized.
type Match struct {
	Category string `json:"category"`
	Strategy string `json:"strategy"`
	Keyword  string `json:"keyword,omitempty"`
}

// Found reports whether a rule or mapping matched.
func (m Match) Found() bool {
	return m.Strategy != ""
}

func (m Match) String() string {
	if !m.Found() {
		return fmt.Sprintf("%s (no match)", m.Category)
	}
	return fmt.Sprintf("%s (%s keyword %q)", m.Category, m.Strategy, m.Keyword)
}

func noMatch() Match {
	return Match{Category: models.CategoryUncategorized}
}

// Outcome describes the result of a mutation. Changed is false when the
// request was rejected or had nothing to do; Reason then says why.
type Outcome struct {
	Changed bool   `json:"changed"`
	Reason  string `json:"reason,omitempty"`
}

func rejected(format string, args ...interface{}) Outcome {
	return Outcome{Reason: fmt.Sprintf(format, args...)}
}

var applied = Outcome{Changed: true}
