// Package watch rescans the statement directory on a cron schedule and
// reports files that appeared since the previous scan. It never touches the
// rule store.
package watch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"fjacquet/expense-app/internal/logging"
)

// DefaultSchedule is used when no schedule is configured.
const DefaultSchedule = "@every 1m"

// Lister lists the statement files currently present.
type Lister interface {
	ScanForStatements() ([]string, error)
}

// Watcher remembers which statements it has seen.
type Watcher struct {
	lister   Lister
	schedule string
	logger   logging.Logger
	onNew    func(files []string)

	mu     sync.Mutex
	known  map[string]struct{}
	primed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithOnNew registers a callback invoked with the new files of a scan.
func WithOnNew(fn func(files []string)) Option {
	return func(w *Watcher) {
		w.onNew = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher. schedule uses the standard five-field cron syntax
// or a descriptor such as "@every 5m".
func New(lister Lister, schedule string, opts ...Option) (*Watcher, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
	}
	w := &Watcher{
		lister:   lister,
		schedule: schedule,
		logger:   logging.GetLogger(),
		known:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithField(logging.FieldComponent, "watch")
	return w, nil
}

// Check scans once and returns the files not seen before, sorted. The first
// call only records a baseline and returns nothing. Files that disappear are
// forgotten, so a file put back is reported again.
func (w *Watcher) Check() ([]string, error) {
	files, err := w.lister.ScanForStatements()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	current := make(map[string]struct{}, len(files))
	var added []string
	for _, f := range files {
		current[f] = struct{}{}
		if _, ok := w.known[f]; !ok && w.primed {
			added = append(added, f)
		}
	}
	w.known = current
	w.primed = true

	sort.Strings(added)
	return added, nil
}

func (w *Watcher) tick() {
	added, err := w.Check()
	if err != nil {
		w.logger.WithError(err).Warn("Rescan failed")
		return
	}
	for _, f := range added {
		w.logger.Info("New statement found", logging.Field{Key: logging.FieldFile, Value: f})
	}
	if len(added) > 0 && w.onNew != nil {
		w.onNew(added)
	}
}

// Run records the baseline, then rescans on schedule until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.Check(); err != nil {
		return fmt.Errorf("initial scan: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(w.schedule, w.tick); err != nil {
		return fmt.Errorf("unable to schedule rescans: %w", err)
	}
	c.Start()
	w.logger.Info("Watching for statements", logging.Field{Key: "schedule", Value: w.schedule})

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("Watcher stopped")
	return nil
}
