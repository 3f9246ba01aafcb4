package interfaces

import (
	"context"

	"crypto-analyst/src/models"
)

// -----------------------------------------------------------------------------
// IMarketDataSource fetches market snapshots from an external provider.
// -----------------------------------------------------------------------------

type IMarketDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchSnapshots returns exactly one snapshot per identifier in ids, or a
	// DataUnavailable error. With no ids it returns the top `limit` coins by
	// market cap, if the provider supports listings.
	FetchSnapshots(ctx context.Context, ids []string, limit int) ([]models.MMarketSnapshot, error)
}

// -----------------------------------------------------------------------------
// ISentimentSource fetches the market-wide Fear & Greed reading.
// -----------------------------------------------------------------------------

type ISentimentSource interface {
	FetchSentiment(ctx context.Context) (models.MSentimentIndex, error)
}
