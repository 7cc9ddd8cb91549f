// Package summary implements the summary command.
package summary

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/cmd/common"
	"fjacquet/expense-app/cmd/root"
	"fjacquet/expense-app/internal/aggregator"
	"fjacquet/expense-app/internal/dateutils"
	"fjacquet/expense-app/internal/report"
)

var (
	month  string
	export string
	output string
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary [files...]",
	Short: "Summarize spending per year, month and category",
	Long: `Summarize the spending found in the given statements, or in every statement of
the watch directory. Use --export to write a CSV, XLSX or JSON report instead of the text view.`,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().StringVarP(&month, "month", "m", "", "Restrict to one month (YYYY-MM)")
	Cmd.Flags().StringVarP(&export, "export", "e", "", "Export format: csv, xlsx or json")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Export file (default: stdout)")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	if month != "" {
		if _, err := dateutils.ParseMonthKey(month); err != nil {
			return err
		}
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	result, err := common.ProcessFiles(common.Context(cmd), c, args, c.GetLogger())
	if err != nil {
		return err
	}

	if export == "" {
		return printSummary(cmd.OutOrStdout(), result.Summary)
	}

	gen := report.NewReportGenerator(c.GetLogger())
	var data []byte
	if month != "" && export == report.FormatCSV {
		data, err = gen.GenerateMonthReport(result.Summary, month)
	} else {
		data, err = gen.GenerateReport(result.Summary, result.Transactions, export)
	}
	if err != nil {
		return err
	}

	w, closeFn, err := common.OpenOutput(cmd, output)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = closeFn()
		return fmt.Errorf("error writing report: %w", err)
	}
	return closeFn()
}

func printSummary(out io.Writer, s aggregator.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Transactions:\t%d\n", s.TotalTransactions)
	fmt.Fprintf(tw, "Categorized:\t%d\n", s.Categorized)
	fmt.Fprintf(tw, "Total spent:\t%s\n", s.TotalSpent.StringFixed(2))
	if s.UndatedExpenses > 0 {
		fmt.Fprintf(tw, "Undated expenses:\t%d\n", s.UndatedExpenses)
	}

	if month != "" {
		fmt.Fprintf(tw, "\nMonth %s\n", month)
		for _, t := range s.Monthly[month] {
			fmt.Fprintf(tw, "  %s\t%s\n", t.Category, t.Total.StringFixed(2))
		}
		return tw.Flush()
	}

	fmt.Fprintln(tw, "\nYearly")
	for _, y := range s.Yearly {
		fmt.Fprintf(tw, "  %d\t%s\t%s\n", y.Year, y.Category, y.Total.StringFixed(2))
	}
	fmt.Fprintln(tw, "\nAverage per month")
	for _, a := range s.Averages {
		fmt.Fprintf(tw, "  %s\t%s\n", a.Category, a.Average.StringFixed(2))
	}
	return tw.Flush()
}
