package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/expense-app/internal/models"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore(models.NewRuleSet())
	var _ Store = m
	var _ Store = (*CategoryStore)(nil)

	_, err := m.RestoreLatestBackup()
	assert.True(t, errors.Is(err, ErrNoBackups))

	start := m.LastModified()
	changed, err := m.Mutate(addMapping("rewe", "Supermarkt"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, m.LastModified().After(start))
	assert.Equal(t, 1, m.Saves)

	name, err := m.RestoreLatestBackup()
	require.NoError(t, err)
	assert.NotEmpty(t, name)
	assert.Empty(t, m.Snapshot().Mappings)
}

func TestMemoryStore_SaveErr(t *testing.T) {
	m := NewMemoryStore(models.NewRuleSet())
	m.SaveErr = errors.New("disk full")

	changed, err := m.Mutate(addMapping("rewe", "Supermarkt"))
	assert.False(t, changed)
	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Empty(t, m.Snapshot().Mappings)
	assert.Zero(t, m.Saves)
}
