// Package rules implements the commands editing categorization rules and
// learned mappings.
package rules

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/cmd/common"
	"fjacquet/expense-app/cmd/root"
	"fjacquet/expense-app/internal/categorizer"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage categorization rules",
	Long:  `List and edit the curated keyword rules. Every change backs up the rules file first.`,
}

// MappingsCmd represents the mappings command
var MappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage learned keyword mappings",
}

func init() {
	Cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List rules in evaluation order",
			Args:  cobra.NoArgs,
			RunE:  listRules,
		},
		&cobra.Command{
			Use:   "add <category> <keyword>...",
			Short: "Add keywords to a rule, creating it if needed",
			Args:  cobra.MinimumNArgs(1),
			RunE: mutate("add rule", func(cat *categorizer.Categorizer, args []string) (categorizer.Outcome, error) {
				return cat.AddRule(args[1:], args[0])
			}),
		},
		&cobra.Command{
			Use:   "update <category> <keyword>...",
			Short: "Replace the keywords of a rule",
			Args:  cobra.MinimumNArgs(1),
			RunE: mutate("update rule", func(cat *categorizer.Categorizer, args []string) (categorizer.Outcome, error) {
				return cat.UpdateRuleKeywords(args[0], args[1:])
			}),
		},
		&cobra.Command{
			Use:   "delete <category>",
			Short: "Delete the rule of a category",
			Args:  cobra.ExactArgs(1),
			RunE: mutate("delete rule", func(cat *categorizer.Categorizer, args []string) (categorizer.Outcome, error) {
				return cat.DeleteRule(args[0])
			}),
		},
		&cobra.Command{
			Use:   "rename <old> <new>",
			Short: "Rename a category in rules and mappings",
			Args:  cobra.ExactArgs(2),
			RunE: mutate("rename category", func(cat *categorizer.Categorizer, args []string) (categorizer.Outcome, error) {
				return cat.RenameCategory(args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "categories",
			Short: "List every known category",
			Args:  cobra.NoArgs,
			RunE:  listCategories,
		},
		&cobra.Command{
			Use:   "backups",
			Short: "List rules backups, oldest first",
			Args:  cobra.NoArgs,
			RunE:  listBackups,
		},
		&cobra.Command{
			Use:   "restore",
			Short: "Restore the most recent rules backup",
			Args:  cobra.NoArgs,
			RunE:  restore,
		},
	)

	MappingsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List learned mappings",
			Args:  cobra.NoArgs,
			RunE:  listMappings,
		},
		&cobra.Command{
			Use:   "add <keyword> <category>",
			Short: "Map a keyword to a category",
			Args:  cobra.ExactArgs(2),
			RunE: mutate("add mapping", func(cat *categorizer.Categorizer, args []string) (categorizer.Outcome, error) {
				return cat.AddMapping(args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "delete <keyword>",
			Short: "Remove a mapping",
			Args:  cobra.ExactArgs(1),
			RunE: mutate("delete mapping", func(cat *categorizer.Categorizer, args []string) (categorizer.Outcome, error) {
				return cat.DeleteMapping(args[0])
			}),
		},
	)
}

type mutation func(cat *categorizer.Categorizer, args []string) (categorizer.Outcome, error)

func mutate(action string, fn mutation) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		outcome, err := fn(c.GetCategorizer(), args)
		if err != nil {
			return err
		}
		return common.PrintOutcome(cmd, action, outcome)
	}
}

func listRules(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, rule := range c.GetCategorizer().Rules() {
		fmt.Fprintf(out, "%d. %s: %s\n", i+1, rule.Category, strings.Join(rule.Keywords, ", "))
	}
	return nil
}

func listCategories(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	for _, name := range c.GetCategorizer().GetAllCategories() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func listMappings(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	mappings := c.GetCategorizer().Mappings()
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", k, mappings[k])
	}
	return nil
}

func listBackups(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	backups, err := c.GetStore().Backups()
	if err != nil {
		return err
	}
	for _, b := range backups {
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Base(b))
	}
	return nil
}

func restore(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	name, err := c.GetStore().RestoreLatestBackup()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", name)
	return err
}
