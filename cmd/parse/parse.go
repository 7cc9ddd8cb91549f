// Package parse implements the parse command: statements in, categorized
// transactions out as CSV.
package parse

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/cmd/common"
	"fjacquet/expense-app/cmd/root"
	"fjacquet/expense-app/internal/parser"
	"fjacquet/expense-app/internal/report"
)

var (
	output      string
	showSkipped bool
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse statements into categorized transactions",
	Long: `Parse one or more bank statements (CSV, XLSX or PDF) and write the categorized
transactions as CSV. Without arguments every statement of the watch directory is parsed.`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default: stdout)")
	Cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "List skipped and excluded rows with their reason")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	result, err := common.ProcessFiles(common.Context(cmd), c, args, c.GetLogger())
	if err != nil {
		return err
	}

	if showSkipped {
		for _, f := range result.Files {
			if f.Report == nil {
				continue
			}
			for _, row := range f.Report.Rows {
				if row.Status == parser.RowAccepted {
					continue
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d %s: %s\n", filepath.Base(f.Path), row.Line, row.Status, row.Reason)
			}
		}
	}

	w, closeFn, err := common.OpenOutput(cmd, output)
	if err != nil {
		return err
	}
	if err := report.WriteTransactionsCSV(w, result.Transactions); err != nil {
		_ = closeFn()
		return fmt.Errorf("error writing transactions: %w", err)
	}
	return closeFn()
}
