package store

import (
	"errors"
	"fmt"
)

// ErrNoBackups is returned by RestoreLatestBackup when the backup directory is empty.
var ErrNoBackups = errors.New("no backups found")

// Error wraps an I/O failure with the store operation and file involved.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
