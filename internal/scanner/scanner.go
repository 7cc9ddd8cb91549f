// Package scanner lists the statement files dropped into the watch directory.
package scanner

import (
	"fmt"

	"fjacquet/expense-app/internal/fileutils"
	"fjacquet/expense-app/internal/logging"
)

// DefaultWatchDir is used when no directory is configured.
const DefaultWatchDir = "~/Documents/BankStatements"

// StatementExtensions are the file types picked up by a scan.
var StatementExtensions = []string{".csv", ".xlsx", ".pdf"}

// Scanner scans one directory for statements.
type Scanner struct {
	dir    string
	logger logging.Logger
}

// New creates a Scanner for dir ("~" is expanded; empty means DefaultWatchDir)
// and creates the directory if it does not exist.
func New(dir string, logger logging.Logger) (*Scanner, error) {
	if dir == "" {
		dir = DefaultWatchDir
	}
	dir = fileutils.ExpandHome(dir)
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return nil, fmt.Errorf("error preparing watch directory: %w", err)
	}
	return &Scanner{dir: dir, logger: logging.OrDefault(logger)}, nil
}

// Dir returns the watched directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// ScanForStatements returns the statement files in the watch directory,
// sorted by name. Subdirectories are not searched.
func (s *Scanner) ScanForStatements() ([]string, error) {
	files, err := fileutils.ListFilesWithExtensions(s.dir, StatementExtensions...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Scanned watch directory",
		logging.Field{Key: logging.FieldFile, Value: s.dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)})
	return files, nil
}
