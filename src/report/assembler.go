package report

import (
	"fmt"
	"strings"
	"time"

	"crypto-analyst/src/analysis"
	"crypto-analyst/src/helpers"
	"crypto-analyst/src/models"
	"crypto-analyst/src/utils"

	"github.com/google/uuid"
)

const (
	SentimentUnavailable = "Live sentiment data is currently unavailable."
	Recommendation       = "*Recommendation:* Monitor market drivers and adjust positions as needed for both long and short-term investments."
)

// Input is what the assembler needs from one refresh.
type Input struct {
	GeneratedAt time.Time
	Options     models.MAnalysisOptions
	Snapshots   []models.MMarketSnapshot
	Metrics     models.MAggregateMetrics
	Sentiment   models.MSentimentIndex
	Narrative   models.MNarrative
}

// Assembler turns metrics and narrative text into a display-ready report.
type Assembler struct {
	MinNarrativeChars int
	NewID             func() string
}

func NewAssembler(minNarrativeChars int) *Assembler {
	if minNarrativeChars < 1 {
		minNarrativeChars = 1
	}
	return &Assembler{
		MinNarrativeChars: minNarrativeChars,
		NewID:             uuid.NewString,
	}
}

// -----------------------------------------------------------------------------

// Assemble builds the report, or fails with ReportIncomplete when any
// narrative section is missing, blank or shorter than the configured minimum.
// It never substitutes placeholder text.
func (a *Assembler) Assemble(in Input) (*models.MReport, error) {
	if missing := a.incompleteSections(in.Narrative); len(missing) > 0 {
		return nil, helpers.NewReportIncomplete(missing, nil, "narrative sections missing or too short: %s", strings.Join(missing, ", "))
	}

	narrative := models.MNarrative{}
	for _, section := range models.NarrativeSections {
		narrative.SetSection(section, strings.TrimSpace(in.Narrative.Section(section)))
	}

	generatedAt := in.GeneratedAt.UTC()
	date := generatedAt.Format(models.ReportDateLayout)
	marketSummary := MarketSummary(date, in.Metrics)

	return &models.MReport{
		ID:               a.NewID(),
		GeneratedAt:      generatedAt,
		ReportDate:       date,
		Options:          in.Options,
		Snapshots:        analysis.SortByMarketCap(in.Snapshots),
		Metrics:          in.Metrics,
		Sentiment:        in.Sentiment,
		Narrative:        narrative,
		MarketSummary:    marketSummary,
		SentimentSummary: SentimentSummary(in.Sentiment),
		ExecutiveSummary: ExecutiveSummary(date, marketSummary, narrative),
	}, nil
}

// -----------------------------------------------------------------------------

func (a *Assembler) incompleteSections(n models.MNarrative) []string {
	var missing []string
	for _, section := range models.NarrativeSections {
		if len([]rune(strings.TrimSpace(n.Section(section)))) < a.MinNarrativeChars {
			missing = append(missing, section)
		}
	}
	return missing
}

// -----------------------------------------------------------------------------

// MarketSummary renders the headline figures as markdown.
func MarketSummary(date string, m models.MAggregateMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Market Summary (as of %s):**\n\n", date)

	if m.NoData {
		b.WriteString("- No market data available.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- **Total Market Cap:** %s\n", utils.FormatBillions(m.TotalMarketCap))
	fmt.Fprintf(&b, "- **24h Volume:** %s\n", utils.FormatBillions(m.TotalVolume24h))
	fmt.Fprintf(&b, "- **Average 24h Change:** %s\n", utils.FormatChange(m.AverageChange24h))
	if m.TopGainer != nil {
		fmt.Fprintf(&b, "- **Top Gainer:** %s (%s)\n", m.TopGainer.ID, utils.FormatChange(m.TopGainer.PercentChange24h))
	}
	if m.TopLoser != nil {
		fmt.Fprintf(&b, "- **Top Loser:** %s (%s)\n", m.TopLoser.ID, utils.FormatChange(m.TopLoser.PercentChange24h))
	}
	fmt.Fprintf(&b, "- **Breadth:** %d up / %d down / %d flat\n", m.Advancers, m.Decliners, m.Unchanged)
	return b.String()
}

// -----------------------------------------------------------------------------

// SentimentSummary describes the Fear & Greed reading.
func SentimentSummary(s models.MSentimentIndex) string {
	if !s.Available {
		return SentimentUnavailable
	}
	return fmt.Sprintf("The current Crypto Fear & Greed Index is **%d** (%s). "+
		"This reflects the overall market sentiment as of now.", s.Value, s.Classification)
}

// -----------------------------------------------------------------------------

// ExecutiveSummary wraps the market summary and the executive narrative.
func ExecutiveSummary(date, marketSummary string, n models.MNarrative) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Executive Summary for %s\n\n", date)
	b.WriteString(marketSummary)
	b.WriteString("\n**Key AI Insights:**\n")
	b.WriteString(n.ExecutiveReport)
	b.WriteString("\n\n")
	b.WriteString(Recommendation)
	return b.String()
}
