package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"crypto-analyst/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	setKeys(t)
	path := writeConfig(t, sampleYAML)

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changes <- c }, logger.NewNopLogger("watcher"))
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// An invalid edit is ignored
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(sampleYAML, "top_n: 8", "top_n: 99", 1)), 0644))
	select {
	case c := <-changes:
		t.Fatalf("unexpected reload with top_n=%d", c.Report.DefaultOptions.TopN)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(sampleYAML, "top_n: 8", "top_n: 12", 1)), 0644))
	select {
	case c := <-changes:
		assert.Equal(t, 12, c.Report.DefaultOptions.TopN)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not picked up")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	w, err := NewWatcher(path, nil, logger.NewNopLogger("watcher"))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()
}
