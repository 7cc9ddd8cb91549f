// Package container provides dependency injection for the expense application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/expense-app/internal/categorizer"
	"fjacquet/expense-app/internal/config"
	"fjacquet/expense-app/internal/factory"
	"fjacquet/expense-app/internal/httpapi"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/parser"
	"fjacquet/expense-app/internal/pipeline"
	"fjacquet/expense-app/internal/scanner"
	"fjacquet/expense-app/internal/store"
	"fjacquet/expense-app/internal/watch"
)

// UploadDirName is the upload directory created inside the watch directory
// when none is configured. Scans do not descend into it.
const UploadDirName = "uploads"

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.CategoryStore
	categorizer *categorizer.Categorizer
	factory     *factory.Factory
	pipeline    *pipeline.Pipeline
	scanner     *scanner.Scanner
}

// Option customizes a Container.
type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewContainer creates and wires all application dependencies. The rules
// file is loaded and the watch directory created.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	// Rule store
	rulesPath := store.ResolvePath(cfg.Rules.File)
	categoryStore, err := store.NewCategoryStore(rulesPath,
		store.WithBackupDir(cfg.Rules.BackupDir),
		store.WithMaxBackups(cfg.Rules.MaxBackups),
		store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := categoryStore.Load(); err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	cat := categorizer.NewCategorizer(categoryStore, logger)

	// Parsers
	parserOpts := parser.DefaultOptions()
	if cfg.Parser.MaxDescriptionLength > 0 {
		parserOpts.MaxDescriptionLength = cfg.Parser.MaxDescriptionLength
	}
	parserOpts.ExclusionMarkers = cfg.Parser.ExclusionMarkers
	parsers := factory.New(logger, parserOpts, nil)

	// Pipeline with result cache
	pipelineOpts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Parser.Workers),
		pipeline.WithLogger(logger),
	}
	if cfg.Cache.Size > 0 {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		pipelineOpts = append(pipelineOpts, pipeline.WithMemo(pipeline.NewLRUMemo(cfg.Cache.Size, ttl)))
	}
	p := pipeline.New(parsers, cat, categoryStore, pipelineOpts...)

	sc, err := scanner.New(cfg.Scanner.WatchDir, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldFile, Value: rulesPath},
		logging.Field{Key: "watch_dir", Value: sc.Dir()})

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       categoryStore,
		categorizer: cat,
		factory:     parsers,
		pipeline:    p,
		scanner:     sc,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the container's rule store.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetFactory returns the parser factory.
func (c *Container) GetFactory() *factory.Factory {
	return c.factory
}

// GetPipeline returns the processing pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetScanner returns the watch directory scanner.
func (c *Container) GetScanner() *scanner.Scanner {
	return c.scanner
}

// UploadDir returns where the HTTP API stores uploaded statements.
func (c *Container) UploadDir() string {
	if c.config.Server.UploadDir != "" {
		return c.config.Server.UploadDir
	}
	return filepath.Join(c.scanner.Dir(), UploadDirName)
}

// NewServer builds the HTTP API over the container's components.
func (c *Container) NewServer() *httpapi.Server {
	return httpapi.NewServer(c.categorizer, c.pipeline, c.scanner, c.store, c.UploadDir(), c.logger)
}

// NewWatcher builds a watcher over the scanner using the configured schedule.
func (c *Container) NewWatcher(opts ...watch.Option) (*watch.Watcher, error) {
	opts = append([]watch.Option{watch.WithLogger(c.logger)}, opts...)
	return watch.New(c.scanner, c.config.Watch.Schedule, opts...)
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
