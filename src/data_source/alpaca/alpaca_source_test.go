package alpaca

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/logger"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	snaps map[string]marketdata.CryptoSnapshot
	err   error
	asked []string
	block chan struct{}
}

func (f *fakeClient) GetCryptoSnapshots(symbols []string, _ marketdata.GetCryptoSnapshotRequest) (map[string]marketdata.CryptoSnapshot, error) {
	f.asked = symbols
	if f.block != nil {
		<-f.block
	}
	return f.snaps, f.err
}

func snapshot(price, prevClose, volume float64) marketdata.CryptoSnapshot {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return marketdata.CryptoSnapshot{
		LatestTrade:  &marketdata.CryptoTrade{Price: price, Timestamp: ts},
		DailyBar:     &marketdata.CryptoBar{Close: price, Volume: volume},
		PrevDailyBar: &marketdata.CryptoBar{Close: prevClose},
	}
}

// The production client must satisfy the narrow interface the source depends on.
var _ snapshotClient = (*marketdata.Client)(nil)

func newSource(client *fakeClient) *AlpacaSource {
	return &AlpacaSource{Client: client, Logger: logger.NewNopLogger("test")}
}

func TestFetchSnapshots(t *testing.T) {
	client := &fakeClient{snaps: map[string]marketdata.CryptoSnapshot{
		"ETH/USD": snapshot(3200, 3200/0.989, 10),
		"BTC/USD": snapshot(65000, 65000/1.023, 2),
	}}

	snaps, err := newSource(client).FetchSnapshots(context.Background(), []string{"btc", "eth"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC/USD", "ETH/USD"}, client.asked)
	require.Len(t, snaps, 2)

	assert.Equal(t, "BTC", snaps[0].ID)
	assert.InDelta(t, 2.3, snaps[0].PercentChange24h, 1e-9)
	assert.Equal(t, 130000.0, snaps[0].Volume24h)
	assert.Zero(t, snaps[0].MarketCap)
	assert.InDelta(t, -1.1, snaps[1].PercentChange24h, 1e-9)
}

func TestFetchSnapshotsUsesConfiguredCoins(t *testing.T) {
	client := &fakeClient{snaps: map[string]marketdata.CryptoSnapshot{
		"BTC/USD": snapshot(65000, 64000, 1),
	}}
	src := newSource(client)
	src.Coins = []string{"BTC", "ETH", "SOL"}

	_, err := src.FetchSnapshots(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC/USD"}, client.asked)
}

func TestFetchSnapshotsFailures(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
		ids    []string
	}{
		{"client error", &fakeClient{err: errors.New("boom")}, []string{"BTC"}},
		{"missing coin", &fakeClient{snaps: map[string]marketdata.CryptoSnapshot{"BTC/USD": snapshot(1, 1, 1)}}, []string{"BTC", "ETH"}},
		{"incomplete snapshot", &fakeClient{snaps: map[string]marketdata.CryptoSnapshot{"BTC/USD": {}}}, []string{"BTC"}},
		{"no identifiers", &fakeClient{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSource(tt.client).FetchSnapshots(context.Background(), tt.ids, 5)
			require.Error(t, err)
			assert.True(t, helpers.IsDataUnavailable(err), "got %v", err)
		})
	}
}

func TestFetchSnapshotsHonoursContext(t *testing.T) {
	client := &fakeClient{block: make(chan struct{})}
	defer close(client.block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSource(client).FetchSnapshots(ctx, []string{"BTC"}, 5)
	require.Error(t, err)
	assert.True(t, helpers.IsDataUnavailable(err))
	assert.ErrorIs(t, err, context.Canceled)
}
