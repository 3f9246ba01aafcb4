package models

import "time"

// MSentimentIndex is the external Fear & Greed reading.
type MSentimentIndex struct {
	Value          int       `json:"value"`
	Classification string    `json:"classification"`
	Timestamp      time.Time `json:"timestamp"`
	Available      bool      `json:"available"`
}
