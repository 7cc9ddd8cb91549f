// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/parsererror"
)

// EnvPrefix is the prefix of every environment override, e.g. EXPENSE_LOG_LEVEL.
const EnvPrefix = "EXPENSE"

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RulesConfig locates the categorization rules file and its backups.
type RulesConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	BackupDir  string `mapstructure:"backup_dir" yaml:"backup_dir"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// ScannerConfig controls statement discovery.
type ScannerConfig struct {
	WatchDir string `mapstructure:"watch_dir" yaml:"watch_dir"`
}

// ParserConfig tunes statement parsing.
type ParserConfig struct {
	MaxDescriptionLength int      `mapstructure:"max_description_length" yaml:"max_description_length"`
	ExclusionMarkers     []string `mapstructure:"exclusion_markers" yaml:"exclusion_markers"`
	Workers              int      `mapstructure:"workers" yaml:"workers"`
}

// CacheConfig sizes the pipeline result cache.
type CacheConfig struct {
	Size       int `mapstructure:"size" yaml:"size"`
	TTLSeconds int `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir"`
}

// WatchConfig configures periodic rescans.
type WatchConfig struct {
	Schedule string `mapstructure:"schedule" yaml:"schedule"`
}

// Config represents the complete application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Rules   RulesConfig   `mapstructure:"rules" yaml:"rules"`
	Scanner ScannerConfig `mapstructure:"scanner" yaml:"scanner"`
	Parser  ParserConfig  `mapstructure:"parser" yaml:"parser"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
}

// InitializeConfig loads configuration with the precedence
// defaults < config file < environment.
//
// When configFile is empty, config.yaml is searched in $HOME/.expense-app,
// .expense-app and the working directory; a missing file is not an error.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.expense-app")
		v.AddConfigPath(".expense-app")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicitly requested)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration obtained from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("rules.file", "")
	v.SetDefault("rules.backup_dir", "")
	v.SetDefault("rules.max_backups", 10)

	v.SetDefault("scanner.watch_dir", "~/Documents/BankStatements")

	v.SetDefault("parser.max_description_length", 150)
	v.SetDefault("parser.exclusion_markers", []string{})
	v.SetDefault("parser.workers", 4)

	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl_seconds", 300)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.upload_dir", "")

	v.SetDefault("watch.schedule", "@every 1m")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, ok := logging.ParseLevel(config.Log.Level); !ok {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Rules.MaxBackups < 1 {
		return &parsererror.ValidationError{Field: "rules.max_backups", Reason: fmt.Sprintf("must be at least 1, got: %d", config.Rules.MaxBackups)}
	}

	if config.Parser.MaxDescriptionLength < 1 {
		return &parsererror.ValidationError{Field: "parser.max_description_length", Reason: fmt.Sprintf("must be at least 1, got: %d", config.Parser.MaxDescriptionLength)}
	}

	if config.Parser.Workers < 1 || config.Parser.Workers > 64 {
		return &parsererror.ValidationError{Field: "parser.workers", Reason: fmt.Sprintf("must be between 1 and 64, got: %d", config.Parser.Workers)}
	}

	if config.Cache.Size < 0 || config.Cache.TTLSeconds < 0 {
		return &parsererror.ValidationError{Field: "cache", Reason: "size and ttl_seconds must not be negative"}
	}

	if config.Server.Addr == "" {
		return &parsererror.ValidationError{Field: "server.addr", Reason: "must not be empty"}
	}

	if _, err := cron.ParseStandard(config.Watch.Schedule); err != nil {
		return &parsererror.ValidationError{Field: "watch.schedule", Reason: err.Error()}
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config
// and installs it as the process default.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	logger := logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
	logging.SetLogger(logger)

	if level, ok := logging.ParseLevel(config.Log.Level); ok {
		logging.SetAllLogLevels(level)
	}
	return logger
}
