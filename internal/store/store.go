// Package store persists the categorization rules and learned mappings.
//
// CategoryStore is the single owner of the rule set. Every mutation goes
// through Mutate, which backs up the live file, writes the new state
// atomically and only then publishes it to readers.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fjacquet/expense-app/internal/fileutils"
	"fjacquet/expense-app/internal/logging"
	"fjacquet/expense-app/internal/models"
)

const (
	// DefaultFileName is the rules file name used when none is configured.
	DefaultFileName = "rules.json"
	// DefaultMaxBackups is the number of backups kept by Save.
	DefaultMaxBackups = 10
	// BackupDirName is the backup directory created next to the rules file.
	BackupDirName = "backups"

	backupTimeLayout = "20060102_150405.000000000"
)

// Store is the contract shared by CategoryStore and MemoryStore.
type Store interface {
	Snapshot() models.RuleSet
	Mutate(fn func(*models.RuleSet) bool) (bool, error)
	RestoreLatestBackup() (string, error)
	LastModified() time.Time
}

// CategoryStore is a file-backed Store.
type CategoryStore struct {
	path       string
	backupDir  string
	maxBackups int
	codec      codec
	now        func() time.Time
	logger     logging.Logger

	mu       sync.RWMutex
	state    models.RuleSet
	modified time.Time
}

// Option configures a CategoryStore.
type Option func(*CategoryStore)

// WithBackupDir overrides the backup directory (default: <dir of file>/backups).
func WithBackupDir(dir string) Option {
	return func(s *CategoryStore) {
		if dir != "" {
			s.backupDir = dir
		}
	}
}

// WithMaxBackups overrides how many backups are retained.
func WithMaxBackups(n int) Option {
	return func(s *CategoryStore) {
		if n > 0 {
			s.maxBackups = n
		}
	}
}

// WithClock injects the clock used for backup names and modification markers.
func WithClock(now func() time.Time) Option {
	return func(s *CategoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *CategoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCategoryStore creates a store for the rules file at path. The file is not
// read until Load is called.
func NewCategoryStore(path string, opts ...Option) (*CategoryStore, error) {
	c, err := codecFor(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}

	s := &CategoryStore{
		path:       path,
		backupDir:  filepath.Join(filepath.Dir(path), BackupDirName),
		maxBackups: DefaultMaxBackups,
		codec:      c,
		now:        time.Now,
		logger:     logging.GetLogger(),
		state:      models.NewRuleSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the live rules file.
func (s *CategoryStore) Path() string {
	return s.path
}

// BackupDir returns the directory holding backups.
func (s *CategoryStore) BackupDir() string {
	return s.backupDir
}

// Load reads the rules file. A missing file yields an empty rule set; a
// malformed one returns an error and leaves the current state untouched.
func (s *CategoryStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("Rules file not found, starting with an empty rule set",
			logging.Field{Key: logging.FieldFile, Value: s.path})
		s.mu.Lock()
		s.state = models.NewRuleSet()
		s.modified = time.Time{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return &Error{Op: "load", Path: s.path, Err: err}
	}

	rs, err := s.codec.Unmarshal(data)
	if err != nil {
		return &Error{Op: "load", Path: s.path, Err: fmt.Errorf("malformed rules file: %w", err)}
	}

	var modified time.Time
	if info, statErr := os.Stat(s.path); statErr == nil {
		modified = info.ModTime()
	}

	s.mu.Lock()
	s.state = rs
	s.modified = modified
	s.mu.Unlock()

	s.logger.Debug("Loaded rules",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: "rules", Value: len(rs.Rules)},
		logging.Field{Key: "mappings", Value: len(rs.Mappings)})
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *CategoryStore) Snapshot() models.RuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// LastModified returns the time of the last load or successful save.
func (s *CategoryStore) LastModified() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Save persists the current state, backing up the live file first.
func (s *CategoryStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(s.state)
}

// Mutate applies fn to a copy of the state. When fn reports a change the copy
// is persisted and, only after the write succeeded, becomes the new state.
func (s *CategoryStore) Mutate(fn func(*models.RuleSet) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if !fn(&next) {
		return false, nil
	}
	if err := s.persistLocked(next); err != nil {
		return false, err
	}
	s.state = next
	return true, nil
}

// persistLocked backs up the live file, prunes old backups and writes rs.
// The caller must hold s.mu.
func (s *CategoryStore) persistLocked(rs models.RuleSet) error {
	data, err := s.codec.Marshal(rs)
	if err != nil {
		return &Error{Op: "encode", Path: s.path, Err: err}
	}

	stamp := s.now()
	if fileutils.FileExists(s.path) {
		if err := s.backupLocked(stamp); err != nil {
			return err
		}
	}

	if err := fileutils.WriteFileAtomic(s.path, data, models.PermissionConfigFile); err != nil {
		return &Error{Op: "save", Path: s.path, Err: err}
	}
	s.modified = stamp

	s.logger.Debug("Saved rules",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: "rules", Value: len(rs.Rules)},
		logging.Field{Key: "mappings", Value: len(rs.Mappings)})
	return nil
}

func (s *CategoryStore) backupPrefix() string {
	base := filepath.Base(s.path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_backup_"
}

func (s *CategoryStore) backupLocked(stamp time.Time) error {
	if err := fileutils.EnsureDirectoryExists(s.backupDir); err != nil {
		return &Error{Op: "backup", Path: s.backupDir, Err: err}
	}

	ext := filepath.Ext(s.path)
	name := filepath.Join(s.backupDir, s.backupPrefix()+stamp.Format(backupTimeLayout)+ext)
	for fileutils.FileExists(name) {
		stamp = stamp.Add(time.Nanosecond)
		name = filepath.Join(s.backupDir, s.backupPrefix()+stamp.Format(backupTimeLayout)+ext)
	}

	if err := fileutils.CopyFile(s.path, name, models.PermissionConfigFile); err != nil {
		return &Error{Op: "backup", Path: name, Err: err}
	}
	s.logger.Debug("Created rules backup", logging.Field{Key: logging.FieldBackup, Value: name})

	return s.pruneLocked()
}

func (s *CategoryStore) pruneLocked() error {
	backups, err := s.listBackups()
	if err != nil {
		return err
	}
	if len(backups) <= s.maxBackups {
		return nil
	}
	for _, old := range backups[:len(backups)-s.maxBackups] {
		if err := os.Remove(old); err != nil {
			return &Error{Op: "prune", Path: old, Err: err}
		}
		s.logger.Debug("Pruned rules backup", logging.Field{Key: logging.FieldBackup, Value: old})
	}
	return nil
}

// listBackups returns backup files oldest first. Fixed-width timestamps make
// lexicographic order chronological.
func (s *CategoryStore) listBackups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "list backups", Path: s.backupDir, Err: err}
	}

	prefix := s.backupPrefix()
	ext := filepath.Ext(s.path)
	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || filepath.Ext(name) != ext {
			continue
		}
		backups = append(backups, filepath.Join(s.backupDir, name))
	}
	sort.Strings(backups)
	return backups, nil
}

// Backups returns the backup files, oldest first.
func (s *CategoryStore) Backups() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listBackups()
}

// RestoreLatestBackup copies the newest backup over the live file and reloads
// it. It returns the restored backup's file name, or ErrNoBackups.
func (s *CategoryStore) RestoreLatestBackup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	backups, err := s.listBackups()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", ErrNoBackups
	}
	latest := backups[len(backups)-1]

	data, err := os.ReadFile(latest)
	if err != nil {
		return "", &Error{Op: "restore", Path: latest, Err: err}
	}
	rs, err := s.codec.Unmarshal(data)
	if err != nil {
		return "", &Error{Op: "restore", Path: latest, Err: fmt.Errorf("malformed backup: %w", err)}
	}

	if err := fileutils.WriteFileAtomic(s.path, data, models.PermissionConfigFile); err != nil {
		return "", &Error{Op: "restore", Path: s.path, Err: err}
	}
	s.state = rs
	s.modified = s.now()

	name := filepath.Base(latest)
	s.logger.Info("Restored rules from backup", logging.Field{Key: logging.FieldBackup, Value: name})
	return name, nil
}

// ResolvePath locates a rules file. Absolute paths are returned unchanged.
// Relative names are looked up in the working directory, ./config, ./database
// and ~/.config/expense-app; when none exists the last location is returned
// so a first save creates it there.
func ResolvePath(filename string) string {
	if filename == "" {
		filename = DefaultFileName
	}
	if filepath.IsAbs(filename) {
		return filename
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filename
	}
	return filepath.Join(homeDir, ".config", "expense-app", filename)
}
