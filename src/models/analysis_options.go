package models

// Timeframes accepted by the analysis prompts.
var Timeframes = []string{"24H", "7D", "30D", "90D"}

// Use cases accepted by the analysis prompts.
const (
	UseCaseGeneral   = "General Overview"
	UseCaseTechnical = "In-depth Technical Analysis"
	UseCaseSentiment = "Sentiment Focused"
	UseCaseCustom    = "Custom"
)

var UseCases = []string{UseCaseGeneral, UseCaseTechnical, UseCaseSentiment, UseCaseCustom}

const (
	MinTopN = 5
	MaxTopN = 20
)

// MAnalysisOptions carries the user controls for one refresh.
type MAnalysisOptions struct {
	Timeframe      string   `json:"timeframe" yaml:"timeframe"`
	TopN           int      `json:"top_n" yaml:"top_n"`
	UseCase        string   `json:"use_case" yaml:"use_case"`
	AdditionalNote string   `json:"additional_note,omitempty" yaml:"additional_note"`
	Coins          []string `json:"coins,omitempty" yaml:"coins"`
}
