package models

// Volatility bucket names, keyed by absolute 24h change.
const (
	BucketStable   = "stable"
	BucketModerate = "moderate"
	BucketVolatile = "volatile"
)

// MMover identifies a coin singled out by the aggregator (top gainer / loser).
type MMover struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	PercentChange24h float64 `json:"percent_change_24h"`
}

// MAggregateMetrics represents summary statistics derived from one snapshot set.
type MAggregateMetrics struct {
	CoinCount         int                 `json:"coin_count"`
	NoData            bool                `json:"no_data"`
	TotalMarketCap    float64             `json:"total_market_cap"`
	TotalVolume24h    float64             `json:"total_volume_24h"`
	AverageChange24h  float64             `json:"average_change_24h"`
	MedianChange24h   float64             `json:"median_change_24h"`
	ChangeStdDev      float64             `json:"change_std_dev"`
	TopGainer         *MMover             `json:"top_gainer,omitempty"`
	TopLoser          *MMover             `json:"top_loser,omitempty"`
	Dominance         float64             `json:"dominance"` // Top coin share of total cap, percent
	RankedByMarketCap []string            `json:"ranked_by_market_cap"`
	Advancers         int                 `json:"advancers"`
	Decliners         int                 `json:"decliners"`
	Unchanged         int                 `json:"unchanged"`
	VolatilityBuckets map[string][]string `json:"volatility_buckets"`
	SentimentScore    float64             `json:"sentiment_score"` // 0..100, 50 is neutral
}
