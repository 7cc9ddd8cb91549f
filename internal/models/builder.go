package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing transactions.
// The first failing step is remembered and returned by Build.
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a TransactionBuilder with a zero amount and no category.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Amount: decimal.Zero,
		},
	}
}

// WithID sets the transaction ID
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ID = id
	return b
}

// WithDate sets the raw date text.
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	date = strings.TrimSpace(date)
	if date == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	b.tx.Date = date
	return b
}

// WithDescription sets the description, falling back to UnknownDescription when blank.
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = UnknownDescription
	}
	b.tx.Description = description
	return b
}

// WithAmount sets the signed amount.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithType sets the transaction type column value.
func (b *TransactionBuilder) WithType(txType string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Type = strings.TrimSpace(txType)
	return b
}

// WithCategory sets the category.
func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Category = category
	return b
}

// Build returns the transaction or the first error recorded by the builder.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, b.err
	}
	if b.tx.Date == "" {
		return Transaction{}, errors.New("date is required")
	}
	if b.tx.Description == "" {
		b.tx.Description = UnknownDescription
	}
	return b.tx, nil
}
