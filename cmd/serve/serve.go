// Package serve implements the serve command.
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/cmd/common"
	"fjacquet/expense-app/cmd/root"
)

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve transactions, summaries and rule editing as JSON over HTTP until
interrupted. Statements are read from the watch directory and from uploads.`,
	Args: cobra.NoArgs,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default: server.addr from config)")
}

func serveFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	listen := addr
	if listen == "" {
		listen = c.GetConfig().Server.Addr
	}

	ctx, stop := signal.NotifyContext(common.Context(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.NewServer().ListenAndServe(ctx, listen)
}
