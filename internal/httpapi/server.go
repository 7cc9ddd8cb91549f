// Package httpapi exposes transactions, summaries and rule editing as JSON
// over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"fjacquet/expense-app/internal/categorizer"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/pipeline"
)

// Categorizer is the rule engine used by the handlers.
type Categorizer interface {
	Explain(description string) categorizer.Match
	GetAllCategories() []string
	Rules() []models.Rule
	Mappings() map[string]string
	AddMapping(keyword, category string) (categorizer.Outcome, error)
	DeleteMapping(keyword string) (categorizer.Outcome, error)
	AddRule(keywords []string, category string) (categorizer.Outcome, error)
	DeleteRule(category string) (categorizer.Outcome, error)
	UpdateRuleKeywords(category string, keywords []string) (categorizer.Outcome, error)
	RenameCategory(oldName, newName string) (categorizer.Outcome, error)
	Learn(description, category string) (string, categorizer.Outcome, error)
}

// Runner runs one processing cycle.
type Runner interface {
	Run(ctx context.Context, inputs []pipeline.Input) (*pipeline.Result, error)
}

// Scanner lists the statements of the watch directory.
type Scanner interface {
	ScanForStatements() ([]string, error)
}

// Restorer restores the latest rules backup.
type Restorer interface {
	RestoreLatestBackup() (string, error)
}

// Server serves the JSON API.
type Server struct {
	categorizer Categorizer
	runner      Runner
	scanner     Scanner
	restorer    Restorer
	uploadDir   string
	logger      logging.Logger

	mu      sync.RWMutex
	uploads []string
}

// NewServer creates a Server. Uploaded statements are stored in uploadDir.
func NewServer(c Categorizer, runner Runner, scanner Scanner, restorer Restorer, uploadDir string, logger logging.Logger) *Server {
	return &Server{
		categorizer: c,
		runner:      runner,
		scanner:     scanner,
		restorer:    restorer,
		uploadDir:   uploadDir,
		logger:      logging.OrDefault(logger).WithField(logging.FieldComponent, "httpapi"),
	}
}

// Router returns the routes of the API.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleTransactions).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/summary/export", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/uploads", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/uploads", s.handleListUploads).Methods(http.MethodGet)
	api.HandleFunc("/suggest", s.handleSuggest).Methods(http.MethodGet)
	api.HandleFunc("/learn", s.handleLearn).Methods(http.MethodPost)

	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/rename", s.handleRename).Methods(http.MethodPost)

	api.HandleFunc("/mappings", s.handleMappings).Methods(http.MethodGet)
	api.HandleFunc("/mappings/{keyword}", s.handlePutMapping).Methods(http.MethodPut)
	api.HandleFunc("/mappings/{keyword}", s.handleDeleteMapping).Methods(http.MethodDelete)

	api.HandleFunc("/rules", s.handleRules).Methods(http.MethodGet)
	api.HandleFunc("/rules", s.handleAddRule).Methods(http.MethodPost)
	api.HandleFunc("/rules/restore", s.handleRestore).Methods(http.MethodPost)
	api.HandleFunc("/rules/{category}", s.handleUpdateRule).Methods(http.MethodPut)
	api.HandleFunc("/rules/{category}", s.handleDeleteRule).Methods(http.MethodDelete)

	router.Use(s.logRequests)
	return router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Handled request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: "duration", Value: time.Since(start).String()})
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", logging.Field{Key: "addr", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) inputs() ([]pipeline.Input, error) {
	var inputs []pipeline.Input
	if s.scanner != nil {
		scanned, err := s.scanner.ScanForStatements()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, pipeline.Inputs(models.SourceScanned, scanned...)...)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(inputs, pipeline.Inputs(models.SourceUploaded, s.uploads...)...), nil
}

func (s *Server) run(ctx context.Context) (*pipeline.Result, error) {
	inputs, err := s.inputs()
	if err != nil {
		return nil, err
	}
	return s.runner.Run(ctx, inputs)
}
