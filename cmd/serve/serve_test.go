package serve

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/expense-app/cmd/root"
	"fjacquet/expense-app/internal/config"
	"fjacquet/expense-app/internal/container"
	"fjacquet/expense-app/internal/logging"
)

func TestServeCommand_Flags(t *testing.T) {
	flag := Cmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, "a", flag.Shorthand)
}

func TestServeCommand_NotInitialized(t *testing.T) {
	original := root.AppContainer
	root.AppContainer = nil
	t.Cleanup(func() { root.AppContainer = original })

	assert.Error(t, serveFunc(Cmd, nil))
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Rules.File = filepath.Join(dir, "rules.json")
	cfg.Scanner.WatchDir = filepath.Join(dir, "statements")
	c, err := container.NewContainer(cfg, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	original := root.AppContainer
	root.AppContainer = c
	addr = "127.0.0.1:0"
	t.Cleanup(func() {
		root.AppContainer = original
		addr = ""
	})

	ctx, cancel := context.WithCancel(context.Background())
	Cmd.SetContext(ctx)
	done := make(chan error, 1)
	go func() { done <- serveFunc(Cmd, nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
