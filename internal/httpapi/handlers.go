package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"fjacquet/expense-app/internal/aggregator"
	"fjacquet/expense-app/internal/categorizer"
	"fjacquet/expense-app/internal/dateutils"
	"fjacquet/expense-app/internal/factory"
	"fjacquet/expense-app/internal/fileutils"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/report"
	"fjacquet/expense-app/internal/store"
)

const maxUploadSize = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type fileStatus struct {
	File     string `json:"file"`
	Source   string `json:"source"`
	Parser   string `json:"parser,omitempty"`
	Accepted int    `json:"accepted"`
	Skipped  int    `json:"skipped"`
	Excluded int    `json:"excluded"`
	Error    string `json:"error,omitempty"`
}

type transactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Files        []fileStatus         `json:"files"`
	Duplicates   int                  `json:"duplicates"`
}

type monthResponse struct {
	Month  string                     `json:"month"`
	Totals []aggregator.CategoryTotal `json:"totals"`
}

type mappingRequest struct {
	Category string `json:"category"`
}

type ruleRequest struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

type renameRequest struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type learnRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type learnResponse struct {
	categorizer.Outcome
	Keyword string `json:"keyword,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("Request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeOutcome maps a mutation result: store failures are 500, rejected
// requests 422.
func (s *Server) writeOutcome(w http.ResponseWriter, outcome categorizer.Outcome, err error) {
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !outcome.Changed && outcome.Reason != "" {
		s.writeJSON(w, http.StatusUnprocessableEntity, outcome)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	result, err := s.run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := transactionsResponse{
		Transactions: result.Transactions,
		Files:        make([]fileStatus, 0, len(result.Files)),
		Duplicates:   result.Duplicates,
	}
	if resp.Transactions == nil {
		resp.Transactions = []models.Transaction{}
	}
	for _, f := range result.Files {
		status := fileStatus{File: filepath.Base(f.Path), Source: string(f.Source)}
		switch {
		case f.Err != nil:
			status.Error = f.Err.Error()
		case f.Report != nil:
			status.Parser = f.Report.Parser
			status.Accepted, status.Skipped, status.Excluded = f.Report.Counts()
			if f.Report.Err != nil {
				status.Error = f.Report.Err.Error()
			}
		}
		resp.Files = append(resp.Files, status)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	result, err := s.run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		s.writeJSON(w, http.StatusOK, result.Summary)
		return
	}
	if _, err := dateutils.ParseMonthKey(month); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	totals := result.Summary.Monthly[month]
	if totals == nil {
		totals = []aggregator.CategoryTotal{}
	}
	s.writeJSON(w, http.StatusOK, monthResponse{Month: month, Totals: totals})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = report.FormatCSV
	}

	result, err := s.run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	gen := report.NewReportGenerator(s.logger)
	var data []byte
	filename := "yearly_summary." + format
	if month := r.URL.Query().Get("month"); month != "" && format == report.FormatCSV {
		data, err = gen.GenerateMonthReport(result.Summary, month)
		filename = "summary_" + month + ".csv"
	} else {
		data, err = gen.GenerateReport(result.Summary, result.Transactions, format)
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	contentType := map[string]string{
		report.FormatCSV:  "text/csv",
		report.FormatJSON: "application/json",
		report.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}[format]
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		s.logger.WithError(err).Warn("Failed to write export")
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	name := filepath.Base(header.Filename)
	if _, err := factory.TypeForFile(name); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := fileutils.EnsureDirectoryExists(s.uploadDir); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	path := filepath.Join(s.uploadDir, name)
	if err := fileutils.WriteFileAtomic(path, data, models.PermissionConfigFile); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	known := false
	for _, p := range s.uploads {
		if p == path {
			known = true
			break
		}
	}
	if !known {
		s.uploads = append(s.uploads, path)
	}
	s.mu.Unlock()

	s.logger.Info("Stored uploaded statement", logging.Field{Key: logging.FieldFile, Value: path})
	s.writeJSON(w, http.StatusCreated, map[string]string{"file": name})
}

func (s *Server) handleListUploads(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.uploads))
	for _, p := range s.uploads {
		names = append(names, filepath.Base(p))
	}
	s.mu.RUnlock()
	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("description")
	if strings.TrimSpace(description) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("description is required"))
		return
	}
	s.writeJSON(w, http.StatusOK, s.categorizer.Explain(description))
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	keyword, outcome, err := s.categorizer.Learn(req.Description, req.Category)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusOK
	if !outcome.Changed && outcome.Reason != "" {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, learnResponse{Outcome: outcome, Keyword: keyword})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.categorizer.GetAllCategories())
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	outcome, err := s.categorizer.RenameCategory(req.Old, req.New)
	s.writeOutcome(w, outcome, err)
}

func (s *Server) handleMappings(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.categorizer.Mappings())
}

func (s *Server) handlePutMapping(w http.ResponseWriter, r *http.Request) {
	var req mappingRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	outcome, err := s.categorizer.AddMapping(mux.Vars(r)["keyword"], req.Category)
	s.writeOutcome(w, outcome, err)
}

func (s *Server) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.categorizer.DeleteMapping(mux.Vars(r)["keyword"])
	s.writeOutcome(w, outcome, err)
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	rules := s.categorizer.Rules()
	if rules == nil {
		rules = []models.Rule{}
	}
	s.writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	outcome, err := s.categorizer.AddRule(req.Keywords, req.Category)
	s.writeOutcome(w, outcome, err)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	outcome, err := s.categorizer.UpdateRuleKeywords(mux.Vars(r)["category"], req.Keywords)
	s.writeOutcome(w, outcome, err)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.categorizer.DeleteRule(mux.Vars(r)["category"])
	s.writeOutcome(w, outcome, err)
}

func (s *Server) handleRestore(w http.ResponseWriter, _ *http.Request) {
	name, err := s.restorer.RestoreLatestBackup()
	if errors.Is(err, store.ErrNoBackups) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"restored": name})
}
