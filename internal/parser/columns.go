package parser

import (
	"strings"
)

// AliasTableVersion identifies the revision of the header alias table. Bump it
// whenever an alias is added, removed or reordered, since resolution (and
// therefore transaction identity) may change.
const AliasTableVersion = 1

// Role is the meaning of a statement column.
type Role string

const (
	RoleDate          Role = "date"
	RoleDescription   Role = "description"
	RoleAmount        Role = "amount"
	RoleTransactionID Role = "transaction_id"
	RoleType          Role = "type"
)

// RequiredRoles must all resolve for a statement to be accepted.
var RequiredRoles = []Role{RoleDate, RoleDescription, RoleAmount}

// German headers come first; the first alias present in a header wins.
var aliasTable = map[Role][]string{
	RoleDate: {
		"Buchungstag", "Buchungsdatum", "Datum", "Valutadatum",
		"Date", "Booking Date", "Transaction Date",
	},
	RoleAmount: {
		"Betrag", "Umsatz", "Wert", "Betrag (EUR)",
		"Amount",
	},
	RoleDescription: {
		"Verwendungszweck", "Beschreibung", "Buchungstext", "Name", "Zahlungsempfänger",
		"Description", "Purpose", "Payee", "Details",
	},
	RoleTransactionID: {
		"Transaktions-ID", "Referenz", "Kundenreferenz",
		"Transaction ID", "Reference", "ID",
	},
	RoleType: {
		"Umsatzart", "Buchungsart", "Typ",
		"Type", "Transaction Type",
	},
}

// descriptionGroups lists the descriptive columns in composition order:
// counterparty, purpose, booking text, auxiliary details.
var descriptionGroups = [][]string{
	{"Name", "Zahlungsempfänger", "Auftraggeber", "Empfänger", "Beguenstigter/Zahlungspflichtiger", "Counterparty", "Payee", "Merchant"},
	{"Verwendungszweck", "Beschreibung", "Description", "Purpose"},
	{"Buchungstext", "Umsatzart"},
	{"Details", "Info", "Notes", "Bemerkung", "Zusatzinfo"},
}

// Aliases returns a copy of the header aliases for role.
func Aliases(role Role) []string {
	return append([]string(nil), aliasTable[role]...)
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

// HasAmountAlias reports whether any header cell names an amount column.
// Format sniffing uses it to accept a delimiter/encoding combination.
func HasAmountAlias(header []string) bool {
	index := headerIndex(header)
	for _, alias := range aliasTable[RoleAmount] {
		if _, ok := index[normalizeHeader(alias)]; ok {
			return true
		}
	}
	return false
}

// Columns maps roles to column positions for one statement header.
type Columns struct {
	roles       map[Role]int
	descriptive []int
}

// ResolveColumns resolves every role against header. The returned slice
// names the required roles that could not be resolved.
func ResolveColumns(header []string) (Columns, []string) {
	index := headerIndex(header)
	cols := Columns{roles: make(map[Role]int, len(aliasTable))}

	for role, aliases := range aliasTable {
		for _, alias := range aliases {
			if i, ok := index[normalizeHeader(alias)]; ok {
				cols.roles[role] = i
				break
			}
		}
	}

	seen := make(map[int]struct{})
	for _, group := range descriptionGroups {
		for _, alias := range group {
			i, ok := index[normalizeHeader(alias)]
			if !ok {
				continue
			}
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			cols.descriptive = append(cols.descriptive, i)
		}
	}

	var missing []string
	for _, role := range RequiredRoles {
		if _, ok := cols.roles[role]; !ok {
			missing = append(missing, string(role))
		}
	}
	return cols, missing
}

// Index returns the column position of role.
func (c Columns) Index(role Role) (int, bool) {
	i, ok := c.roles[role]
	return i, ok
}

// Get returns the cell for role, or "" when the role or the cell is absent.
func (c Columns) Get(row []string, role Role) string {
	i, ok := c.roles[role]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// DescriptionParts returns the descriptive cells of row in composition order.
func (c Columns) DescriptionParts(row []string) []string {
	parts := make([]string, 0, len(c.descriptive))
	for _, i := range c.descriptive {
		if i < len(row) {
			parts = append(parts, row[i])
		}
	}
	return parts
}

// Raw extracts the cells BuildRow needs from a resolved row.
func (c Columns) Raw(row []string) RawRow {
	return RawRow{
		Date:             c.Get(row, RoleDate),
		AmountText:       c.Get(row, RoleAmount),
		DescriptionParts: c.DescriptionParts(row),
		SourceID:         c.Get(row, RoleTransactionID),
		Type:             c.Get(row, RoleType),
	}
}
