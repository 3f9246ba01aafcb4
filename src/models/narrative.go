package models

// Narrative section names.
const (
	SectionMarketAnalysis    = "market_analysis"
	SectionTechnicalAnalysis = "technical_analysis"
	SectionSentimentAnalysis = "sentiment_analysis"
	SectionExecutiveReport   = "executive_report"
)

// NarrativeSections lists every section a complete report requires, in generation order.
var NarrativeSections = []string{
	SectionMarketAnalysis,
	SectionTechnicalAnalysis,
	SectionSentimentAnalysis,
	SectionExecutiveReport,
}

// MNarrativePrompt is what the text generator receives for one section.
type MNarrativePrompt struct {
	Section           string `json:"section"`
	SystemInstruction string `json:"system_instruction"`
	Prompt            string `json:"prompt"`
	Grounded          bool   `json:"grounded"` // Generator may search the web for current news
}

// MNarrative holds the AI-generated text, one field per section.
type MNarrative struct {
	MarketAnalysis    string `json:"market_analysis"`
	TechnicalAnalysis string `json:"technical_analysis"`
	SentimentAnalysis string `json:"sentiment_analysis"`
	ExecutiveReport   string `json:"executive_report"`
}

// Section returns the text stored for the named section.
func (n MNarrative) Section(name string) string {
	switch name {
	case SectionMarketAnalysis:
		return n.MarketAnalysis
	case SectionTechnicalAnalysis:
		return n.TechnicalAnalysis
	case SectionSentimentAnalysis:
		return n.SentimentAnalysis
	case SectionExecutiveReport:
		return n.ExecutiveReport
	}
	return ""
}

// SetSection stores text for the named section. Unknown names are ignored.
func (n *MNarrative) SetSection(name, text string) {
	switch name {
	case SectionMarketAnalysis:
		n.MarketAnalysis = text
	case SectionTechnicalAnalysis:
		n.TechnicalAnalysis = text
	case SectionSentimentAnalysis:
		n.SentimentAnalysis = text
	case SectionExecutiveReport:
		n.ExecutiveReport = text
	}
}
