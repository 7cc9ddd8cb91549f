package categorizer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/store"
)

func newTestCategorizer(rs models.RuleSet) (*Categorizer, *store.MemoryStore) {
	mem := store.NewMemoryStore(rs)
	return NewCategorizer(mem, logging.NewMockLogger()), mem
}

func TestSuggestCategory(t *testing.T) {
	rs := models.RuleSet{
		Mappings: map[string]string{
			"ed":     "Toys",
			"rewe":   "Supermarkt",
			"amazon": "Shopping",
		},
		Rules: []models.Rule{
			{Category: "Amazon", Keywords: []string{"amazon"}},
			{Category: "Versicherung", Keywords: []string{"allianz", "axa"}},
		},
	}
	c, _ := newTestCategorizer(rs)

	tests := []struct {
		name        string
		description string
		expected    string
	}{
		{"whole word blocks TED", "I bought a TED bear", models.CategoryUncategorized},
		{"mapping hit", "paid at rewe market", "Supermarkt"},
		{"rule beats mapping", "AMAZON.DE MARKETPLACE", "Amazon"},
		{"second keyword of rule", "AXA Beitrag 2024", "Versicherung"},
		{"no match", "Kino Ticket", models.CategoryUncategorized},
		{"empty description", "", models.CategoryUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.SuggestCategory(tt.description))
		})
	}
}

func TestSuggestCategory_RuleOrderWins(t *testing.T) {
	c, _ := newTestCategorizer(models.RuleSet{
		Rules: []models.Rule{
			{Category: "First", Keywords: []string{"shop"}},
			{Category: "Second", Keywords: []string{"online"}},
		},
	})
	assert.Equal(t, "First", c.SuggestCategory("online shop"))
}

func TestSuggestCategory_MappingOrderIsDeterministic(t *testing.T) {
	c, _ := newTestCategorizer(models.RuleSet{
		Mappings: map[string]string{
			"amazon":       "Shopping",
			"amazon prime": "Streaming",
			"prime":        "Video",
		},
	})

	for i := 0; i < 20; i++ {
		assert.Equal(t, "Streaming", c.SuggestCategory("Amazon Prime Abo"))
	}

	m := c.Explain("Prime only")
	assert.Equal(t, Match{Category: "Video", Strategy: "Mapping", Keyword: "prime"}, m)
	assert.True(t, m.Found())
}

func TestExplain(t *testing.T) {
	c, _ := newTestCategorizer(models.RuleSet{
		Rules: []models.Rule{{Category: "Amazon", Keywords: []string{"amazon"}}},
	})

	m := c.Explain("amazon.de")
	assert.Equal(t, "Rule", m.Strategy)
	assert.Equal(t, "amazon", m.Keyword)
	assert.Equal(t, `Amazon (Rule keyword "amazon")`, m.String())

	none := c.Explain("nothing here")
	assert.False(t, none.Found())
	assert.Equal(t, "Sonstiges (no match)", none.String())
}

func TestCategorizeAll(t *testing.T) {
	c, _ := newTestCategorizer(models.RuleSet{
		Mappings: map[string]string{"rewe": "Supermarkt"},
	})
	txs := []models.Transaction{
		{ID: "1", Description: "REWE Filiale 123", Amount: decimal.RequireFromString("-45.67")},
		{ID: "2", Description: "Unbekannt", Amount: decimal.RequireFromString("-1")},
	}

	out := c.CategorizeAll(txs)

	require.Len(t, out, 2)
	assert.Equal(t, "Supermarkt", out[0].Category)
	assert.Equal(t, models.CategoryUncategorized, out[1].Category)
	assert.Empty(t, txs[0].Category, "input must not be modified")

	single := c.Categorize(txs[0])
	assert.Equal(t, "Supermarkt", single.Category)
}

func TestExtractKeyword(t *testing.T) {
	c, _ := newTestCategorizer(models.NewRuleSet())

	tests := []struct {
		description string
		expected    string
	}{
		{"REWE Filiale 123", "rewe filiale"},
		{"  Netflix  ", "netflix"},
		{"", ""},
		{"Müller   Drogerie GmbH", "müller drogerie"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.ExtractKeyword(tt.description))
		})
	}
}

func TestAddMapping(t *testing.T) {
	c, mem := newTestCategorizer(models.NewRuleSet())

	outcome, err := c.AddMapping("  REWE ", "Supermarkt")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, map[string]string{"rewe": "Supermarkt"}, c.Mappings())

	outcome, err = c.AddMapping("rewe", "Groceries")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, "Groceries", c.Mappings()["rewe"])
	assert.Equal(t, 2, mem.Saves)

	outcome, err = c.AddMapping(" ", "Supermarkt")
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.NotEmpty(t, outcome.Reason)
	assert.Equal(t, 2, mem.Saves)
}

func TestDeleteMapping(t *testing.T) {
	c, mem := newTestCategorizer(models.RuleSet{Mappings: map[string]string{"rewe": "Supermarkt"}})

	outcome, err := c.DeleteMapping("missing")
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Zero(t, mem.Saves)

	outcome, err = c.DeleteMapping("REWE")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Empty(t, c.Mappings())
}

func TestAddRule_UnionsKeywords(t *testing.T) {
	c, _ := newTestCategorizer(models.NewRuleSet())

	_, err := c.AddRule([]string{"lidl", "edeka"}, "Supermarkt")
	require.NoError(t, err)
	_, err = c.AddRule([]string{"EDEKA", "aldi", "lidl"}, "Supermarkt")
	require.NoError(t, err)

	rules := c.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, models.Rule{Category: "Supermarkt", Keywords: []string{"lidl", "edeka", "aldi"}}, rules[0])

	_, err = c.AddRule([]string{"ikea"}, "Haus")
	require.NoError(t, err)
	rules = c.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "Haus", rules[1].Category)

	outcome, err := c.AddRule([]string{"x"}, "  ")
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
}

func TestDeleteRule(t *testing.T) {
	c, _ := newTestCategorizer(models.RuleSet{
		Rules: []models.Rule{
			{Category: "Haus", Keywords: []string{"ikea"}},
			{Category: "Amazon", Keywords: []string{"amazon"}},
			{Category: "Haus", Keywords: []string{"obi"}},
		},
	})

	outcome, err := c.DeleteRule("haus")
	require.NoError(t, err)
	assert.False(t, outcome.Changed, "match is exact")

	outcome, err = c.DeleteRule("Haus")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, []models.Rule{{Category: "Amazon", Keywords: []string{"amazon"}}}, c.Rules())
}

func TestUpdateRuleKeywords(t *testing.T) {
	c, _ := newTestCategorizer(models.RuleSet{
		Rules: []models.Rule{{Category: "Haus", Keywords: []string{"ikea"}}},
	})

	outcome, err := c.UpdateRuleKeywords("Haus", []string{" OBI ", "hornbach", "obi"})
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, []string{"obi", "hornbach"}, c.Rules()[0].Keywords)

	outcome, err = c.UpdateRuleKeywords("Missing", []string{"x"})
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Contains(t, outcome.Reason, "Missing")
}

func TestRenameCategory(t *testing.T) {
	c, mem := newTestCategorizer(models.RuleSet{
		Mappings: map[string]string{"ikea": "Haus", "rewe": "Supermarkt"},
		Rules: []models.Rule{
			{Category: "Haus", Keywords: []string{"obi"}},
			{Category: "Amazon", Keywords: []string{"amazon"}},
		},
	})

	outcome, err := c.RenameCategory("Haus", "Haus")
	require.NoError(t, err)
	assert.False(t, outcome.Changed)

	outcome, err = c.RenameCategory("Haus", "  ")
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Zero(t, mem.Saves)

	outcome, err = c.RenameCategory("Haus", "Home")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, map[string]string{"ikea": "Home", "rewe": "Supermarkt"}, c.Mappings())
	assert.Equal(t, []models.Rule{
		{Category: "Home", Keywords: []string{"obi"}},
		{Category: "Amazon", Keywords: []string{"amazon"}},
	}, c.Rules())
}

func TestRenameCategory_MergesCollidingRules(t *testing.T) {
	c, _ := newTestCategorizer(models.RuleSet{
		Rules: []models.Rule{
			{Category: "Home", Keywords: []string{"ikea"}},
			{Category: "Amazon", Keywords: []string{"amazon"}},
			{Category: "Haus", Keywords: []string{"obi", "ikea"}},
		},
	})

	_, err := c.RenameCategory("Haus", "Home")
	require.NoError(t, err)
	assert.Equal(t, []models.Rule{
		{Category: "Home", Keywords: []string{"ikea", "obi"}},
		{Category: "Amazon", Keywords: []string{"amazon"}},
	}, c.Rules())
}

func TestGetAllCategories(t *testing.T) {
	c, _ := newTestCategorizer(models.NewRuleSet())
	assert.Equal(t, []string{"Amazon", "Computerspiele", "Haus", "Sonstiges", "Supermarkt", "Trading", "Versicherung"}, c.GetAllCategories())

	c, _ = newTestCategorizer(models.RuleSet{
		Mappings: map[string]string{"netflix": "Abos"},
		Rules:    []models.Rule{{Category: "Reisen", Keywords: []string{"sbb"}}, {Category: "Haus"}},
	})
	assert.Equal(t, []string{"Abos", "Amazon", "Computerspiele", "Haus", "Reisen", "Sonstiges", "Supermarkt", "Trading", "Versicherung"}, c.GetAllCategories())
}

func TestLearn(t *testing.T) {
	c, _ := newTestCategorizer(models.NewRuleSet())

	keyword, outcome, err := c.Learn("Spotify AB Stockholm", "Abos")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, "spotify ab", keyword)
	assert.Equal(t, "Abos", c.SuggestCategory("SPOTIFY AB STOCKHOLM 12.03"))

	keyword, outcome, err = c.Learn("   ", "Abos")
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Empty(t, keyword)
}

func TestStoreErrorsPropagate(t *testing.T) {
	c, mem := newTestCategorizer(models.NewRuleSet())
	boom := errors.New("disk full")
	mem.SaveErr = boom

	operations := map[string]func() (Outcome, error){
		"add mapping": func() (Outcome, error) { return c.AddMapping("rewe", "Supermarkt") },
		"add rule":    func() (Outcome, error) { return c.AddRule([]string{"ikea"}, "Haus") },
		"rename":      func() (Outcome, error) { return c.RenameCategory("Haus", "Home") },
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			outcome, err := op()
			assert.False(t, outcome.Changed)
			var storeErr *store.Error
			require.ErrorAs(t, err, &storeErr)
			assert.True(t, errors.Is(err, boom))
		})
	}
	assert.Empty(t, c.Mappings())
	assert.Empty(t, c.Rules())
}

func TestWithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	fs, err := store.NewCategoryStore(path, store.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	require.NoError(t, fs.Load())

	c := NewCategorizer(fs, logging.NewMockLogger())
	_, err = c.AddRule([]string{"amazon"}, "Amazon")
	require.NoError(t, err)
	_, err = c.AddMapping("amazon", "Shopping")
	require.NoError(t, err)

	reloaded, err := store.NewCategoryStore(path, store.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "Amazon", NewCategorizer(reloaded, nil).SuggestCategory("AMAZON.DE MARKETPLACE"))
}
