package alpaca

import (
	"context"
	"net/http"
	"strings"
	"time"

	datasource "crypto-analyst/src/data_source"
	"crypto-analyst/src/helpers"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

const quoteCurrency = "USD"

var _ interfaces.IMarketDataSource = (*AlpacaSource)(nil)

// snapshotClient is the slice of the Alpaca market data client this source uses.
type snapshotClient interface {
	GetCryptoSnapshots(symbols []string, req marketdata.GetCryptoSnapshotRequest) (map[string]marketdata.CryptoSnapshot, error)
}

type AlpacaSource struct {
	Client snapshotClient
	Coins  []string // Used when the caller asks for "top N", Alpaca has no market cap ranking
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAlpacaSource(cfg *models.MConfig, log *logger.Logger) *AlpacaSource {
	timeout := time.Duration(cfg.Network.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:     cfg.DataSource.APIKey,
		APISecret:  cfg.DataSource.APISecret,
		BaseURL:    cfg.DataSource.BaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	return &AlpacaSource{
		Client: client,
		Coins:  cfg.DataSource.Coins,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) Name() string {
	return "alpaca"
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) FetchSnapshots(ctx context.Context, ids []string, limit int) ([]models.MMarketSnapshot, error) {
	ids = datasource.NormalizeIDs(ids)
	if len(ids) == 0 {
		ids = datasource.NormalizeIDs(s.Coins)
		if limit > 0 && len(ids) > limit {
			ids = ids[:limit]
		}
	}
	if len(ids) == 0 {
		return nil, helpers.NewDataUnavailable(nil, "alpaca needs explicit coin identifiers")
	}

	pairs := make([]string, len(ids))
	for i, id := range ids {
		pairs[i] = id + "/" + quoteCurrency
	}

	type result struct {
		snaps map[string]marketdata.CryptoSnapshot
		err   error
	}
	done := make(chan result, 1)
	go func() {
		snaps, err := s.Client.GetCryptoSnapshots(pairs, marketdata.GetCryptoSnapshotRequest{})
		done <- result{snaps, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, helpers.NewDataUnavailable(ctx.Err(), "alpaca request aborted")
	case res = <-done:
	}
	if res.err != nil {
		return nil, helpers.NewDataUnavailable(res.err, "alpaca request failed")
	}

	got := make(map[string]models.MMarketSnapshot, len(res.snaps))
	for pair, snap := range res.snaps {
		id := strings.ToUpper(strings.TrimSuffix(pair, "/"+quoteCurrency))
		converted, err := toSnapshot(id, snap)
		if err != nil {
			return nil, err
		}
		got[id] = converted
	}

	snapshots, err := datasource.OrderByRequest(s.Name(), ids, got)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Alpaca: fetched %d crypto snapshots", len(snapshots))
	return snapshots, nil
}

// -----------------------------------------------------------------------------

// toSnapshot derives the 24h change from the previous daily close and the
// USD volume from the daily bar. Market cap is not available from Alpaca.
func toSnapshot(id string, snap marketdata.CryptoSnapshot) (models.MMarketSnapshot, error) {
	if snap.LatestTrade == nil || snap.DailyBar == nil || snap.PrevDailyBar == nil {
		return models.MMarketSnapshot{}, helpers.NewDataUnavailable(nil, "alpaca returned incomplete snapshot for %s", id)
	}
	prev := snap.PrevDailyBar.Close
	if prev <= 0 {
		return models.MMarketSnapshot{}, helpers.NewDataUnavailable(nil, "alpaca returned invalid previous close for %s", id)
	}

	price := snap.LatestTrade.Price
	return models.MMarketSnapshot{
		ID:               id,
		Name:             id,
		Price:            price,
		Volume24h:        snap.DailyBar.Volume * snap.DailyBar.Close,
		MarketCap:        0,
		PercentChange24h: (price - prev) / prev * 100,
		LastUpdated:      snap.LatestTrade.Timestamp.UTC(),
	}, nil
}
