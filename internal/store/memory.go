package store

import (
	"fmt"
	"sync"
	"time"

	"fjacquet/expense-app/internal/models"
)

// MemoryStore is an in-memory Store for tests. SaveErr, when set, makes every
// mutation fail as a write error would.
type MemoryStore struct {
	SaveErr error
	Saves   int

	mu      sync.RWMutex
	state   models.RuleSet
	backups []models.RuleSet
	version int64
}

// NewMemoryStore returns a MemoryStore seeded with a copy of initial.
func NewMemoryStore(initial models.RuleSet) *MemoryStore {
	rs := initial.Clone()
	rs.Normalize()
	return &MemoryStore{state: rs}
}

// Snapshot returns a deep copy of the current state.
func (m *MemoryStore) Snapshot() models.RuleSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Mutate mirrors CategoryStore.Mutate.
func (m *MemoryStore) Mutate(fn func(*models.RuleSet) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state.Clone()
	if !fn(&next) {
		return false, nil
	}
	if m.SaveErr != nil {
		return false, &Error{Op: "save", Path: "memory", Err: m.SaveErr}
	}
	m.backups = append(m.backups, m.state.Clone())
	m.state = next
	m.version++
	m.Saves++
	return true, nil
}

// RestoreLatestBackup pops the most recent snapshot.
func (m *MemoryStore) RestoreLatestBackup() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.backups) == 0 {
		return "", ErrNoBackups
	}
	last := len(m.backups) - 1
	m.state = m.backups[last]
	m.backups = m.backups[:last]
	m.version++
	return fmt.Sprintf("memory_backup_%d", last), nil
}

// LastModified changes after every successful mutation or restore.
func (m *MemoryStore) LastModified() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Unix(0, m.version)
}
