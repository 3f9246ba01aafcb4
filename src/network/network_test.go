package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(timeout int) *NetworkManager {
	cfg := &models.MConfig{Network: models.MNetworkConfig{RequestTimeout: timeout, UserAgent: "analyst-test"}}
	return NewNetworkManager(cfg, logger.NewNopLogger("net"))
}

func TestGetSendsParamsAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTC,ETH", r.URL.Query().Get("symbol"))
		assert.Equal(t, "secret", r.Header.Get("X-CMC_PRO_API_KEY"))
		assert.Equal(t, "analyst-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := newTestManager(5).Get(context.Background(), srv.URL+"/quotes",
		map[string]string{"symbol": "BTC,ETH"},
		map[string]string{"X-CMC_PRO_API_KEY": "secret"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestGetDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestManager(5).Get(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetHonoursContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestManager(5).Get(ctx, srv.URL, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
