package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/parsererror"
)

// Parser turns one raw statement into a Report.
type Parser interface {
	// Parse reads a whole statement from r. It never fails: a rejected file is
	// reported through Report.Err and row level problems through Report.Rows.
	Parse(r io.Reader) *Report

	// Name identifies the statement format, e.g. "CSV" or "PDF".
	Name() string
}

// RowStatus is the outcome of extracting a single statement row.
type RowStatus string

const (
	RowAccepted RowStatus = "accepted"
	RowSkipped  RowStatus = "skipped"
	RowExcluded RowStatus = "excluded"
)

// RowResult records what happened to one row of a statement.
type RowResult struct {
	Line        int
	Status      RowStatus
	Reason      string
	Transaction models.Transaction
}

// Report is the result of parsing one statement.
type Report struct {
	Parser    string
	Delimiter string
	Encoding  string
	Rows      []RowResult
	Err       error
}

// Reject builds a report for a file that could not be read at all.
func Reject(parserName string, err error) *Report {
	return &Report{Parser: parserName, Err: err}
}

// OK reports whether the file was accepted.
func (r *Report) OK() bool {
	return r.Err == nil
}

// Transactions returns the accepted transactions in file order.
func (r *Report) Transactions() []models.Transaction {
	txs := make([]models.Transaction, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.Status == RowAccepted {
			txs = append(txs, row.Transaction)
		}
	}
	return txs
}

// Counts returns the number of accepted, skipped and excluded rows.
func (r *Report) Counts() (accepted, skipped, excluded int) {
	for _, row := range r.Rows {
		switch row.Status {
		case RowAccepted:
			accepted++
		case RowSkipped:
			skipped++
		case RowExcluded:
			excluded++
		}
	}
	return accepted, skipped, excluded
}

// ParseFile opens path and parses it with p. Only failing to open the file is
// returned as an error; a rejected statement carries the path in Report.Err.
func ParseFile(p Parser, path string) (*Report, error) {
	file, err := os.Open(path) // #nosec G304 -- statement paths come from the scanner or the CLI
	if err != nil {
		return nil, fmt.Errorf("error opening statement: %w", err)
	}
	defer func() { _ = file.Close() }()

	report := p.Parse(file)
	var formatErr *parsererror.InvalidFormatError
	if errors.As(report.Err, &formatErr) && formatErr.FilePath == "" {
		formatErr.FilePath = filepath.Base(path)
	}
	return report, nil
}
