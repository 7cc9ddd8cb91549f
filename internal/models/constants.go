package models

// Categories
const (
	// CategoryUncategorized is the sentinel assigned when no rule or mapping matches.
	CategoryUncategorized = "Sonstiges"
	CategoryGroceries     = "Supermarkt"
	CategoryAmazon        = "Amazon"
	CategoryInsurance     = "Versicherung"
	CategoryGames         = "Computerspiele"
	CategoryTrading       = "Trading"
	CategoryHome          = "Haus"
)

// DefaultCategories is the baseline category list offered even on an empty store.
var DefaultCategories = []string{
	CategoryUncategorized,
	CategoryGroceries,
	CategoryAmazon,
	CategoryInsurance,
	CategoryGames,
	CategoryTrading,
	CategoryHome,
}

// Descriptions
const (
	UnknownDescription   = "Unknown Transaction"
	MaxDescriptionLength = 150
	DescriptionSeparator = " | "
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
