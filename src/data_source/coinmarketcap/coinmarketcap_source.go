package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	datasource "crypto-analyst/src/data_source"
	"crypto-analyst/src/helpers"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
)

const (
	DefaultBaseURL = "https://pro-api.coinmarketcap.com"
	quotesPath     = "/v1/cryptocurrency/quotes/latest"
	listingsPath   = "/v1/cryptocurrency/listings/latest"
	apiKeyHeader   = "X-CMC_PRO_API_KEY"
	convert        = "USD"
)

var _ interfaces.IMarketDataSource = (*CoinMarketCapSource)(nil)

type CoinMarketCapSource struct {
	BaseURL string
	APIKey  string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCoinMarketCapSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *CoinMarketCapSource {
	base := cfg.DataSource.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &CoinMarketCapSource{
		BaseURL: strings.TrimRight(base, "/"),
		APIKey:  cfg.DataSource.APIKey,
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (s *CoinMarketCapSource) Name() string {
	return "coinmarketcap"
}

// -----------------------------------------------------------------------------

// FetchSnapshots fetches quotes for ids, or the top `limit` listings when ids is empty
func (s *CoinMarketCapSource) FetchSnapshots(ctx context.Context, ids []string, limit int) ([]models.MMarketSnapshot, error) {
	ids = datasource.NormalizeIDs(ids)
	if len(ids) == 0 {
		return s.fetchListings(ctx, limit)
	}
	return s.fetchQuotes(ctx, ids)
}

// -----------------------------------------------------------------------------

type cmcStatus struct {
	ErrorCode    int     `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

type cmcQuote struct {
	Price            *float64 `json:"price"`
	Volume24h        *float64 `json:"volume_24h"`
	PercentChange24h *float64 `json:"percent_change_24h"`
	MarketCap        *float64 `json:"market_cap"`
	LastUpdated      string   `json:"last_updated"`
}

type cmcCoin struct {
	ID     int                 `json:"id"`
	Name   string              `json:"name"`
	Symbol string              `json:"symbol"`
	Quote  map[string]cmcQuote `json:"quote"`
}

type cmcQuotesResponse struct {
	Status cmcStatus          `json:"status"`
	Data   map[string]cmcCoin `json:"data"`
}

type cmcListingsResponse struct {
	Status cmcStatus `json:"status"`
	Data   []cmcCoin `json:"data"`
}

// -----------------------------------------------------------------------------

func (s *CoinMarketCapSource) fetchQuotes(ctx context.Context, ids []string) ([]models.MMarketSnapshot, error) {
	params := map[string]string{
		"symbol":  strings.Join(ids, ","),
		"convert": convert,
	}

	body, err := s.get(ctx, quotesPath, params)
	if err != nil {
		return nil, err
	}

	var resp cmcQuotesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, helpers.NewDataUnavailable(err, "coinmarketcap returned malformed quotes")
	}
	if err := statusError(resp.Status); err != nil {
		return nil, err
	}

	got := make(map[string]models.MMarketSnapshot, len(resp.Data))
	for key, coin := range resp.Data {
		snap, err := toSnapshot(coin)
		if err != nil {
			return nil, err
		}
		got[strings.ToUpper(key)] = snap
	}

	snapshots, err := datasource.OrderByRequest(s.Name(), ids, got)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("CoinMarketCap: fetched %d/%d quotes", len(snapshots), len(ids))
	return snapshots, nil
}

// -----------------------------------------------------------------------------

func (s *CoinMarketCapSource) fetchListings(ctx context.Context, limit int) ([]models.MMarketSnapshot, error) {
	if limit <= 0 {
		limit = models.MaxTopN
	}
	params := map[string]string{
		"start":    "1",
		"limit":    strconv.Itoa(limit),
		"convert":  convert,
		"sort":     "market_cap",
		"sort_dir": "desc",
	}

	body, err := s.get(ctx, listingsPath, params)
	if err != nil {
		return nil, err
	}

	var resp cmcListingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, helpers.NewDataUnavailable(err, "coinmarketcap returned malformed listings")
	}
	if err := statusError(resp.Status); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, helpers.NewDataUnavailable(nil, "no market data returned from coinmarketcap")
	}

	snapshots := make([]models.MMarketSnapshot, 0, len(resp.Data))
	for _, coin := range resp.Data {
		snap, err := toSnapshot(coin)
		if err != nil {
			return nil, err
		}
		if err := datasource.ValidateSnapshot(s.Name(), snap); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	s.Logger.Info("CoinMarketCap: fetched top %d listings", len(snapshots))
	return snapshots, nil
}

// -----------------------------------------------------------------------------

func (s *CoinMarketCapSource) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	body, err := s.Network.Get(ctx, s.BaseURL+path, params, map[string]string{apiKeyHeader: s.APIKey})
	if err != nil {
		return nil, helpers.NewDataUnavailable(err, "coinmarketcap request failed")
	}
	return body, nil
}

// -----------------------------------------------------------------------------

func statusError(st cmcStatus) error {
	if st.ErrorCode == 0 {
		return nil
	}
	msg := "unknown error"
	if st.ErrorMessage != nil {
		msg = *st.ErrorMessage
	}
	return helpers.NewDataUnavailable(nil, "coinmarketcap error %d: %s", st.ErrorCode, msg)
}

// -----------------------------------------------------------------------------

func toSnapshot(coin cmcCoin) (models.MMarketSnapshot, error) {
	id := strings.ToUpper(coin.Symbol)
	q, ok := coin.Quote[convert]
	if !ok {
		return models.MMarketSnapshot{}, helpers.NewDataUnavailable(nil, "coinmarketcap returned no %s quote for %s", convert, id)
	}
	if q.Price == nil || q.Volume24h == nil || q.PercentChange24h == nil || q.MarketCap == nil {
		return models.MMarketSnapshot{}, helpers.NewDataUnavailable(nil, "coinmarketcap returned incomplete quote for %s", id)
	}

	updated, err := time.Parse(time.RFC3339, q.LastUpdated)
	if err != nil {
		updated = time.Time{}
	}

	return models.MMarketSnapshot{
		ID:               id,
		Name:             coin.Name,
		Price:            *q.Price,
		Volume24h:        *q.Volume24h,
		MarketCap:        *q.MarketCap,
		PercentChange24h: *q.PercentChange24h,
		LastUpdated:      updated.UTC(),
	}, nil
}

// -----------------------------------------------------------------------------

func (s *CoinMarketCapSource) String() string {
	return fmt.Sprintf("coinmarketcap(%s)", s.BaseURL)
}
