// Package pipeline runs one processing cycle: parse the scanned and uploaded
// statements, attach provenance, categorize and aggregate.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fjacquet/expense-app/internal/aggregator"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
	"fjacquet/expense-app/internal/parser"
)

// DefaultWorkers bounds concurrent parsing when nothing is configured.
const DefaultWorkers = 4

// Input is one statement file to process.
type Input struct {
	Path   string        `json:"path"`
	Source models.Source `json:"source"`
}

// FileResult is the parse outcome of one input.
type FileResult struct {
	Input
	Report *parser.Report `json:"-"`
	Err    error          `json:"-"`
}

// Result is the output of one cycle.
type Result struct {
	Fingerprint  string
	Files        []FileResult
	Transactions []models.Transaction
	Duplicates   int
	Summary      aggregator.Summary
}

// FileParser parses a statement file. *factory.Factory implements it.
type FileParser interface {
	ParseFile(path string) (*parser.Report, error)
}

// Categorizer assigns categories to parsed transactions.
type Categorizer interface {
	CategorizeAll(txs []models.Transaction) []models.Transaction
}

// Versioned exposes the last change of the rule store.
type Versioned interface {
	LastModified() time.Time
}

// Pipeline wires the parsers, the categorizer and the aggregator.
type Pipeline struct {
	parsers     FileParser
	categorizer Categorizer
	store       Versioned
	memo        Memo
	workers     int
	logger      logging.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMemo sets the result cache.
func WithMemo(m Memo) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.memo = m
		}
	}
}

// WithWorkers bounds concurrent parsing.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline. Results are not cached unless WithMemo is given.
func New(parsers FileParser, categorizer Categorizer, store Versioned, opts ...Option) *Pipeline {
	p := &Pipeline{
		parsers:     parsers,
		categorizer: categorizer,
		store:       store,
		memo:        NopMemo{},
		workers:     DefaultWorkers,
		logger:      logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fingerprint identifies a cycle: the sorted input names and the rule store
// version. Size and modification time of inputs that exist are included so a
// replaced upload is not served from the cache.
func Fingerprint(inputs []Input, rulesModified time.Time) string {
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		name := string(in.Source) + ":" + in.Path
		if info, err := os.Stat(in.Path); err == nil {
			name += fmt.Sprintf(":%d:%d", info.Size(), info.ModTime().UnixNano())
		}
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "%d", rulesModified.UnixNano())
	return hex.EncodeToString(h.Sum(nil))
}

// Run processes inputs. Files are parsed concurrently but assembled in input
// order, so identical inputs give identical results. A file that cannot be
// opened or parsed is recorded in Result.Files and does not stop the cycle.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) (*Result, error) {
	fingerprint := Fingerprint(inputs, p.store.LastModified())
	if cached, ok := p.memo.Get(fingerprint); ok {
		p.logger.Debug("Using cached result",
			logging.Field{Key: logging.FieldFingerprint, Value: fingerprint})
		return cached, nil
	}

	files := make([]FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := p.parsers.ParseFile(in.Path)
			files[i] = FileResult{Input: in, Report: report, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing statements: %w", err)
	}

	result := &Result{Fingerprint: fingerprint, Files: files}
	seen := make(map[string]struct{})
	var drafts []models.Transaction
	for _, f := range files {
		if err := fileError(f); err != nil {
			p.logger.WithError(err).Warn("Statement not processed",
				logging.Field{Key: logging.FieldFile, Value: f.Path})
			continue
		}
		name := filepath.Base(f.Path)
		for _, tx := range f.Report.Transactions() {
			if _, dup := seen[tx.ID]; dup {
				result.Duplicates++
				continue
			}
			seen[tx.ID] = struct{}{}
			drafts = append(drafts, tx.WithProvenance(name, f.Source))
		}
	}

	result.Transactions = p.categorizer.CategorizeAll(drafts)
	result.Summary = aggregator.Summarize(result.Transactions)

	p.logger.Info("Processed statements",
		logging.Field{Key: "files", Value: len(inputs)},
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: "duplicates", Value: result.Duplicates},
		logging.Field{Key: logging.FieldFingerprint, Value: fingerprint})

	p.memo.Set(fingerprint, result)
	return result, nil
}

func fileError(f FileResult) error {
	if f.Err != nil {
		return f.Err
	}
	if f.Report == nil {
		return fmt.Errorf("no report for %s", f.Path)
	}
	return f.Report.Err
}

// Inputs builds pipeline inputs for paths sharing one source.
func Inputs(source models.Source, paths ...string) []Input {
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		inputs = append(inputs, Input{Path: path, Source: source})
	}
	return inputs
}
