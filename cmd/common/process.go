// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/internal/categorizer"
	"fjacquet/expense-app/internal/container"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/pipeline"
)

// OpenOutput returns the command's stdout for "" or "-", otherwise it creates
// path. The returned close function must be called when done.
func OpenOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}

// Inputs returns the statements named on the command line, or every statement
// of the watch directory when none is given.
func Inputs(c *container.Container, args []string) ([]pipeline.Input, error) {
	if len(args) > 0 {
		return pipeline.Inputs(models.SourceUploaded, args...), nil
	}
	files, err := c.GetScanner().ScanForStatements()
	if err != nil {
		return nil, err
	}
	return pipeline.Inputs(models.SourceScanned, files...), nil
}

// ProcessFiles runs one pipeline cycle over args and logs the outcome of each
// file.
func ProcessFiles(ctx context.Context, c *container.Container, args []string, log logging.Logger) (*pipeline.Result, error) {
	inputs, err := Inputs(c, args)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		log.Warn("No statements found", logging.Field{Key: logging.FieldFile, Value: c.GetScanner().Dir()})
	}

	result, err := c.GetPipeline().Run(ctx, inputs)
	if err != nil {
		return nil, err
	}

	for _, f := range result.Files {
		fileLog := log.WithField(logging.FieldFile, f.Path)
		switch {
		case f.Err != nil:
			fileLog.WithError(f.Err).Error("Statement not processed")
		case f.Report.Err != nil:
			fileLog.WithError(f.Report.Err).Error("Statement rejected")
		default:
			accepted, skipped, excluded := f.Report.Counts()
			fileLog.Info("Statement processed",
				logging.Field{Key: logging.FieldParser, Value: f.Report.Parser},
				logging.Field{Key: "accepted", Value: accepted},
				logging.Field{Key: "skipped", Value: skipped},
				logging.Field{Key: "excluded", Value: excluded})
		}
	}
	return result, nil
}

// PrintOutcome reports a rule mutation. A rejected mutation is returned as an
// error so the command exits non-zero.
func PrintOutcome(cmd *cobra.Command, action string, outcome categorizer.Outcome) error {
	if !outcome.Changed {
		if outcome.Reason != "" {
			return fmt.Errorf("%s rejected: %s", action, outcome.Reason)
		}
		return fmt.Errorf("%s had no effect", action)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: done\n", action)
	return err
}

// Context returns the command's context, or context.Background when the
// command was not started through Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
