package models

import "time"

// MMarketSnapshot is the point-in-time market data for one coin.
// PercentChange24h is expressed in percent units (2.3 means +2.3%).
type MMarketSnapshot struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	Volume24h        float64   `json:"volume_24h"`
	MarketCap        float64   `json:"market_cap"`
	PercentChange24h float64   `json:"percent_change_24h"`
	LastUpdated      time.Time `json:"last_updated"`
}
