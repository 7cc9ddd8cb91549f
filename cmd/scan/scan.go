// Package scan implements the scan command.
package scan

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/cmd/root"
	"fjacquet/expense-app/internal/factory"
)

// Cmd represents the scan command
var Cmd = &cobra.Command{
	Use:   "scan",
	Short: "List the statements in the watch directory",
	Args:  cobra.NoArgs,
	RunE:  scanFunc,
}

func scanFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	files, err := c.GetScanner().ScanForStatements()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d statement(s) in %s\n", len(files), c.GetScanner().Dir())
	for _, f := range files {
		parserType, err := factory.TypeForFile(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-5s %s\n", parserType, filepath.Base(f))
	}
	return nil
}
