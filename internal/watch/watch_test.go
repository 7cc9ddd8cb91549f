package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/expense-app/internal/logging"
)

type fakeLister struct {
	mu    sync.Mutex
	files []string
	err   error
}

func (f *fakeLister) set(files ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = files
}

func (f *fakeLister) ScanForStatements() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.files...), f.err
}

func TestNew_Schedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "default", schedule: ""},
		{name: "descriptor", schedule: "@every 5m"},
		{name: "five fields", schedule: "*/10 * * * *"},
		{name: "invalid", schedule: "every now and then", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(&fakeLister{}, tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, w)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, w)
		})
	}
}

func TestCheck(t *testing.T) {
	lister := &fakeLister{}
	lister.set("a.csv", "b.pdf")
	w, err := New(lister, "", WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	added, err := w.Check()
	require.NoError(t, err)
	assert.Empty(t, added, "first scan is the baseline")

	lister.set("c.xlsx", "a.csv", "b.pdf", "0.csv")
	added, err = w.Check()
	require.NoError(t, err)
	assert.Equal(t, []string{"0.csv", "c.xlsx"}, added)

	added, err = w.Check()
	require.NoError(t, err)
	assert.Empty(t, added)

	lister.set("a.csv")
	_, err = w.Check()
	require.NoError(t, err)
	lister.set("a.csv", "b.pdf")
	added, err = w.Check()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdf"}, added)
}

func TestCheck_ListerError(t *testing.T) {
	lister := &fakeLister{err: errors.New("permission denied")}
	w, err := New(lister, "")
	require.NoError(t, err)

	_, err = w.Check()
	assert.Error(t, err)
}

func TestTick_CallsOnNew(t *testing.T) {
	lister := &fakeLister{}
	logger := logging.NewMockLogger()
	var got []string
	w, err := New(lister, "", WithLogger(logger), WithOnNew(func(files []string) { got = files }))
	require.NoError(t, err)

	w.tick()
	assert.Nil(t, got)

	lister.set("new.csv")
	w.tick()
	assert.Equal(t, []string{"new.csv"}, got)
	assert.True(t, logger.HasEntry("INFO", "New statement found"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	w, err := New(&fakeLister{}, "@every 1h")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_InitialScanFails(t *testing.T) {
	w, err := New(&fakeLister{err: errors.New("gone")}, "")
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}
