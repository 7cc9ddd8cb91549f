// Package models provides the data structures used throughout the application.
package models

import (
	"github.com/shopspring/decimal"
)

// Source records how a statement file reached the application.
type Source string

const (
	SourceScanned  Source = "Scanned"
	SourceUploaded Source = "Uploaded"
)

// Transaction is one normalized statement row.
//
// Date keeps the raw text found in the statement; day-first parsing happens
// downstream. An empty Category means the transaction has not been categorized.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Date        string          `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Type        string          `json:"type,omitempty" yaml:"type,omitempty"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty"`
	File        string          `json:"file,omitempty" yaml:"file,omitempty"`
	Source      Source          `json:"source,omitempty" yaml:"source,omitempty"`
}

// IsCategorized reports whether a category has been assigned.
func (t Transaction) IsCategorized() bool {
	return t.Category != ""
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// AmountString returns the canonical two-decimal rendering of the amount.
func (t Transaction) AmountString() string {
	return t.Amount.StringFixed(2)
}

// WithProvenance returns a copy of t carrying the file name and source.
func (t Transaction) WithProvenance(file string, source Source) Transaction {
	t.File = file
	t.Source = source
	return t
}
