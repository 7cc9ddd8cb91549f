package parser

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IDLength is the number of hex characters kept from the name-based UUID.
const IDLength = 12

var transactionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fjacquet/expense-app/transaction"))

// TransactionID derives the deterministic identifier of a transaction.
//
// A non-empty source reference is hashed on its own; otherwise the date, the
// composed description and the two-decimal amount are hashed together, so
// identical rows in overlapping exports collapse to the same ID.
func TransactionID(sourceRef, date, description string, amount decimal.Decimal) string {
	key := strings.TrimSpace(sourceRef)
	if key == "" {
		key = date + "|" + description + "|" + amount.StringFixed(2)
	}
	id := uuid.NewSHA1(transactionNamespace, []byte(key))
	return strings.ReplaceAll(id.String(), "-", "")[:IDLength]
}
