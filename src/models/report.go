package models

import "time"

// ReportDateLayout formats the date shown in prompts and summaries.
const ReportDateLayout = "January 2, 2006"

// MReport is the display-ready bundle handed to the presentation layer.
type MReport struct {
	ID               string            `json:"id"`
	GeneratedAt      time.Time         `json:"generated_at"`
	ReportDate       string            `json:"report_date"`
	Options          MAnalysisOptions  `json:"options"`
	Snapshots        []MMarketSnapshot `json:"snapshots"`
	Metrics          MAggregateMetrics `json:"metrics"`
	Sentiment        MSentimentIndex   `json:"sentiment"`
	Narrative        MNarrative        `json:"narrative"`
	MarketSummary    string            `json:"market_summary"`
	SentimentSummary string            `json:"sentiment_summary"`
	ExecutiveSummary string            `json:"executive_summary"`
}

// MRefreshCommand is the message a dashboard sends over the WebSocket.
type MRefreshCommand struct {
	Command string           `json:"command"`
	Options MAnalysisOptions `json:"options"`
}

// MRefreshEvent is what the hub pushes to dashboards after a refresh.
type MRefreshEvent struct {
	Type      string   `json:"type"` // "REPORT" or "ERROR"
	Report    *MReport `json:"report,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
	Message   string   `json:"message,omitempty"`
	Timestamp int64    `json:"timestamp"`
}
