// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/expense-app/internal/config"
	"fjacquet/expense-app/internal/container"
	"fjacquet/expense-app/internal/logging"
)

// GlobalFlags are the persistent flags of every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.GetLogger()

	// AppConfig is the configuration loaded by the persistent pre-run.
	AppConfig *config.Config

	// AppContainer holds the wired application dependencies.
	AppContainer *container.Container

	// Flags holds the persistent flag values.
	Flags = GlobalFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-app",
		Short: "Categorize bank statement transactions and summarize spending.",
		Long: `expense-app reads bank statements (CSV, XLSX, PDF), turns every row into a
canonical transaction, assigns a spending category from keyword rules and learned
mappings, and summarizes spending per year, month and category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&Flags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.expense-app, .expense-app or .)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format (text or json)")
}

// initialize loads .env, the configuration and the logger, then builds the
// container.
func initialize() error {
	if _, err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.InitializeConfig(Flags.ConfigFile)
	if err != nil {
		return err
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}
	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainer(cfg, container.WithLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppContainer = c
	return nil
}

// GetContainer returns the application container, or an error when the
// command runs without the persistent pre-run.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return AppContainer, nil
}

// GetConfig returns the loaded configuration, or the defaults.
func GetConfig() *config.Config {
	if AppConfig == nil {
		return config.Default()
	}
	return AppConfig
}
