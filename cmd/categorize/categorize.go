// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/cmd/common"
	"fjacquet/expense-app/cmd/root"
)

var learnCategory string

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize <description>",
	Short: "Categorize a transaction description",
	Long: `Categorize a transaction description with the curated rules and the learned
mappings, and show which keyword matched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: categorizeFunc,
}

// LearnCmd represents the learn command
var LearnCmd = &cobra.Command{
	Use:   "learn <description>",
	Short: "Learn a category for a transaction description",
	Long: `Learn a category from a correction: the first two words of the description
become a keyword mapped to the given category.`,
	Args: cobra.MinimumNArgs(1),
	RunE: learnFunc,
}

func init() {
	LearnCmd.Flags().StringVarP(&learnCategory, "category", "c", "", "Category to assign")
	_ = LearnCmd.MarkFlagRequired("category")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	match := c.GetCategorizer().Explain(strings.Join(args, " "))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), match.String())
	return err
}

func learnFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	keyword, outcome, err := c.GetCategorizer().Learn(strings.Join(args, " "), learnCategory)
	if err != nil {
		return err
	}
	return common.PrintOutcome(cmd, fmt.Sprintf("learn %q -> %s", keyword, learnCategory), outcome)
}
