package main

import (
	"fmt"
	"os"

	"fjacquet/expense-app/cmd/categorize"
	"fjacquet/expense-app/cmd/parse"
	"fjacquet/expense-app/cmd/root"
	"fjacquet/expense-app/cmd/rules"
	"fjacquet/expense-app/cmd/scan"
	"fjacquet/expense-app/cmd/serve"
	"fjacquet/expense-app/cmd/summary"
	"fjacquet/expense-app/cmd/watch"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(categorize.LearnCmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(rules.MappingsCmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(scan.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(watch.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
