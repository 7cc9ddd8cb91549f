// Package watch implements the watch command.
package watch

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/cmd/common"
	"fjacquet/expense-app/cmd/root"
	"fjacquet/expense-app/internal/container"
	"fjacquet/expense-app/internal/logging"
	internalwatch "fjacquet/expense-app/internal/watch"
)

var schedule string

// Cmd represents the watch command
var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the statement directory for new files",
	Long: `Rescan the watch directory on a cron schedule. When new statements appear
they are processed and the updated totals are logged. Rules are never changed.`,
	Args: cobra.NoArgs,
	RunE: watchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&schedule, "schedule", "s", "", "Cron schedule (default: watch.schedule from config)")
}

func watchFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if schedule != "" {
		c.GetConfig().Watch.Schedule = schedule
	}

	ctx, stop := signal.NotifyContext(common.Context(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := c.NewWatcher(internalwatch.WithOnNew(func([]string) { refresh(cmd, c) }))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// refresh reprocesses the whole directory so totals include the new files.
func refresh(cmd *cobra.Command, c *container.Container) {
	log := c.GetLogger()
	result, err := common.ProcessFiles(common.Context(cmd), c, nil, log)
	if err != nil {
		log.WithError(err).Error("Failed to process statements")
		return
	}
	log.Info("Totals updated",
		logging.Field{Key: logging.FieldCount, Value: result.Summary.TotalTransactions},
		logging.Field{Key: "total_spent", Value: result.Summary.TotalSpent.StringFixed(2)})
}
