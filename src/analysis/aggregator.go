package analysis

import (
	"sort"

	"crypto-analyst/src/analysis/core"
	"crypto-analyst/src/models"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------

// Aggregate derives summary metrics from a snapshot set. It is pure: the
// result depends only on the set, not on its order, and ties are broken by ID.
// An empty set yields the no-data metrics.
func Aggregate(snapshots []models.MMarketSnapshot) models.MAggregateMetrics {
	metrics := emptyMetrics()
	if len(snapshots) == 0 {
		return metrics
	}

	coins := append([]models.MMarketSnapshot(nil), snapshots...)
	sort.Slice(coins, func(i, j int) bool { return coins[i].ID < coins[j].ID })

	metrics.NoData = false
	metrics.CoinCount = len(coins)

	// 1. Totals, summed exactly
	totalCap := decimal.Zero
	totalVol := decimal.Zero
	changes := make([]float64, len(coins))
	for i, c := range coins {
		totalCap = totalCap.Add(decimal.NewFromFloat(c.MarketCap))
		totalVol = totalVol.Add(decimal.NewFromFloat(c.Volume24h))
		changes[i] = c.PercentChange24h
	}
	metrics.TotalMarketCap = totalCap.InexactFloat64()
	metrics.TotalVolume24h = totalVol.InexactFloat64()

	// 2. Distribution of 24h changes
	metrics.AverageChange24h, metrics.ChangeStdDev = core.CalculateMeanStd(changes)
	metrics.MedianChange24h = core.CalculateMedian(changes)

	// 3. Movers. coins is ID-sorted, so strict comparisons keep the lowest ID on ties.
	gainer, loser := coins[0], coins[0]
	for _, c := range coins[1:] {
		if c.PercentChange24h > gainer.PercentChange24h {
			gainer = c
		}
		if c.PercentChange24h < loser.PercentChange24h {
			loser = c
		}
	}
	metrics.TopGainer = toMover(gainer)
	metrics.TopLoser = toMover(loser)

	// 4. Ranking and dominance
	ranked := append([]models.MMarketSnapshot(nil), coins...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].MarketCap > ranked[j].MarketCap })
	for _, c := range ranked {
		metrics.RankedByMarketCap = append(metrics.RankedByMarketCap, c.ID)
	}
	metrics.Dominance = core.Share(ranked[0].MarketCap, metrics.TotalMarketCap)

	// 5. Breadth and volatility
	for _, c := range coins {
		switch {
		case c.PercentChange24h > 0:
			metrics.Advancers++
		case c.PercentChange24h < 0:
			metrics.Decliners++
		default:
			metrics.Unchanged++
		}
		bucket := core.VolatilityBucket(c.PercentChange24h)
		metrics.VolatilityBuckets[bucket] = append(metrics.VolatilityBuckets[bucket], c.ID)
	}

	metrics.SentimentScore = core.SentimentScore(metrics.Advancers, metrics.Decliners, metrics.CoinCount, metrics.AverageChange24h)
	return metrics
}

// -----------------------------------------------------------------------------

// SortByMarketCap returns a copy of snapshots ordered by market cap, descending, then ID.
func SortByMarketCap(snapshots []models.MMarketSnapshot) []models.MMarketSnapshot {
	out := append([]models.MMarketSnapshot(nil), snapshots...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].MarketCap != out[j].MarketCap {
			return out[i].MarketCap > out[j].MarketCap
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// -----------------------------------------------------------------------------

func emptyMetrics() models.MAggregateMetrics {
	return models.MAggregateMetrics{
		NoData:            true,
		RankedByMarketCap: []string{},
		VolatilityBuckets: map[string][]string{
			models.BucketStable:   {},
			models.BucketModerate: {},
			models.BucketVolatile: {},
		},
		SentimentScore: 50,
	}
}

// -----------------------------------------------------------------------------

func toMover(s models.MMarketSnapshot) *models.MMover {
	return &models.MMover{
		ID:               s.ID,
		Name:             s.Name,
		Price:            s.Price,
		PercentChange24h: s.PercentChange24h,
	}
}
