package daemon

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_BuildsGraph(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.ListenAddr = "127.0.0.1:0"

	d, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, d.Engine())
	assert.NotNil(t, d.Lists())
	assert.False(t, d.Engine().Enabled(), "filtering starts disabled")
	d.shutdown()
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.ListenAddr = "127.0.0.1:0"

	d, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not shut down")
	}
}

func TestOpenStore_FallsBackToMemory(t *testing.T) {
	// A file where the data dir should be forces the fallback path.
	dir := t.TempDir() + "/blocked"
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0600))

	store, cache := openStore(dir, zap.NewNop())
	assert.NotNil(t, store)
	assert.NotNil(t, cache)
	assert.NoError(t, store.Set("k", "v"))
}
