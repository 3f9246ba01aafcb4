package narrative

import (
	"fmt"
	"strings"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/models"
	"crypto-analyst/src/utils"
)

// PromptContext is everything a section prompt may draw on.
type PromptContext struct {
	ReportDate string
	Options    models.MAnalysisOptions
	Metrics    models.MAggregateMetrics
	Sentiment  models.MSentimentIndex
	Previous   models.MNarrative // Sections generated earlier in the same refresh
	WebSearch  bool              // Generator can ground on Google Search
}

// -----------------------------------------------------------------------------

// BuildPrompt renders the prompt for one section.
func BuildPrompt(section string, c PromptContext) (models.MNarrativePrompt, error) {
	task, ok := TaskFor(section)
	if !ok {
		return models.MNarrativePrompt{}, helpers.NewValidation("unknown narrative section %q", section)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Report Date:** %s\n", c.ReportDate)
	for i, step := range task.Steps(c) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	if emphasis := useCaseEmphasis(c.Options); emphasis != "" {
		fmt.Fprintf(&b, "Emphasis: %s\n", emphasis)
	}
	if section == models.SectionExecutiveReport && c.Options.AdditionalNote != "" {
		fmt.Fprintf(&b, "Note: %s\n", c.Options.AdditionalNote)
	}

	b.WriteString("\n")
	b.WriteString(MetricsContext(c.Metrics, c.Sentiment))

	if section == models.SectionExecutiveReport {
		b.WriteString(previousContext(c.Previous))
	}

	grounded := task.WebSearch && c.WebSearch

	fmt.Fprintf(&b, "\nExpected output: %s\n", task.ExpectedOutput)
	if grounded {
		fmt.Fprintf(&b, "Take every price and market figure from the data above. Search the web for news and social media from the past %s and name the sources you rely on.\n", c.Options.Timeframe)
	} else {
		b.WriteString("Use only the figures given above. No news feed is available, so do not cite specific news events.\n")
	}
	b.WriteString("Answer in markdown without a top-level heading.\n")

	return models.MNarrativePrompt{
		Section:           section,
		SystemInstruction: systemInstruction(task.Agent),
		Prompt:            b.String(),
		Grounded:          grounded,
	}, nil
}

// -----------------------------------------------------------------------------

// MetricsContext summarizes the aggregated figures for the generator.
func MetricsContext(m models.MAggregateMetrics, s models.MSentimentIndex) string {
	var b strings.Builder
	b.WriteString("Market data:\n")

	if m.NoData {
		b.WriteString("- No market data was available for this refresh.\n")
	} else {
		fmt.Fprintf(&b, "- Coins analyzed: %d (%s)\n", m.CoinCount, strings.Join(m.RankedByMarketCap, ", "))
		fmt.Fprintf(&b, "- Total Market Cap: %s\n", utils.FormatBillions(m.TotalMarketCap))
		fmt.Fprintf(&b, "- 24h Volume: %s\n", utils.FormatBillions(m.TotalVolume24h))
		fmt.Fprintf(&b, "- Average 24h Change: %s (median %s, std dev %.2f)\n",
			utils.FormatChange(m.AverageChange24h), utils.FormatChange(m.MedianChange24h), m.ChangeStdDev)
		if m.TopGainer != nil {
			fmt.Fprintf(&b, "- Top Gainer: %s %s at %s\n", m.TopGainer.ID, utils.FormatChange(m.TopGainer.PercentChange24h), utils.FormatPrice(m.TopGainer.Price))
		}
		if m.TopLoser != nil {
			fmt.Fprintf(&b, "- Top Loser: %s %s at %s\n", m.TopLoser.ID, utils.FormatChange(m.TopLoser.PercentChange24h), utils.FormatPrice(m.TopLoser.Price))
		}
		fmt.Fprintf(&b, "- Breadth: %d advancing, %d declining, %d unchanged\n", m.Advancers, m.Decliners, m.Unchanged)
		fmt.Fprintf(&b, "- Volatility: stable [%s], moderate [%s], volatile [%s]\n",
			strings.Join(m.VolatilityBuckets[models.BucketStable], ", "),
			strings.Join(m.VolatilityBuckets[models.BucketModerate], ", "),
			strings.Join(m.VolatilityBuckets[models.BucketVolatile], ", "))
		if m.Dominance > 0 {
			fmt.Fprintf(&b, "- Dominance of the largest coin: %.2f%%\n", m.Dominance)
		}
	}
	fmt.Fprintf(&b, "- Breadth/momentum sentiment score: %.1f/100\n", m.SentimentScore)

	if s.Available {
		fmt.Fprintf(&b, "- Crypto Fear & Greed Index: %d (%s)\n", s.Value, s.Classification)
	} else {
		b.WriteString("- Crypto Fear & Greed Index: unavailable\n")
	}
	return b.String()
}

// -----------------------------------------------------------------------------

func systemInstruction(a Agent) string {
	return fmt.Sprintf("You are a %s.\nGoal: %s\nBackground: %s", a.Role, a.Goal, a.Backstory)
}

// -----------------------------------------------------------------------------

func useCaseEmphasis(o models.MAnalysisOptions) string {
	switch o.UseCase {
	case models.UseCaseTechnical:
		return "go deep on indicators, levels and trade setups."
	case models.UseCaseSentiment:
		return "weigh sentiment and news flow above price action."
	case models.UseCaseCustom:
		if o.AdditionalNote != "" {
			return o.AdditionalNote
		}
	}
	return ""
}

// -----------------------------------------------------------------------------

func previousContext(n models.MNarrative) string {
	var b strings.Builder
	for _, section := range models.NarrativeSections {
		if section == models.SectionExecutiveReport {
			continue
		}
		text := strings.TrimSpace(n.Section(section))
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", sectionTitle(section), text)
	}
	return b.String()
}

// -----------------------------------------------------------------------------

func sectionTitle(section string) string {
	words := strings.Split(section, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
