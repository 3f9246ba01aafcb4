package render

import (
	"fmt"
	"strings"

	"crypto-analyst/src/models"
	"crypto-analyst/src/utils"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const DefaultWidth = 100

var (
	headline = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ADB5")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00ADB5")).
			Padding(0, 2)

	muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6b7280")).
		Italic(true)
)

// -----------------------------------------------------------------------------

// Markdown lays the report out as one document, section by section.
func Markdown(r *models.MReport) string {
	var b strings.Builder

	b.WriteString("## Market Overview\n\n")
	b.WriteString(r.MarketSummary)
	b.WriteString("\n")
	b.WriteString(r.Narrative.MarketAnalysis)
	b.WriteString("\n\n## Technical Analysis\n\n")
	b.WriteString(r.Narrative.TechnicalAnalysis)
	b.WriteString("\n\n## Sentiment\n\n")
	b.WriteString(r.SentimentSummary)
	b.WriteString("\n\n")
	b.WriteString(r.Narrative.SentimentAnalysis)
	b.WriteString("\n\n## Detailed Data\n\n")
	b.WriteString(SnapshotTable(r.Snapshots))
	b.WriteString("\n## Final Report\n\n")
	b.WriteString(r.ExecutiveSummary)
	b.WriteString("\n")
	return b.String()
}

// -----------------------------------------------------------------------------

// SnapshotTable renders the snapshots as a markdown table, in the order given.
func SnapshotTable(snapshots []models.MMarketSnapshot) string {
	if len(snapshots) == 0 {
		return "_No market data._\n"
	}

	var b strings.Builder
	b.WriteString("| Coin | Name | Price | 24h | Market Cap | Volume 24h |\n")
	b.WriteString("|------|------|------:|----:|-----------:|-----------:|\n")
	for _, s := range snapshots {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.ID, s.Name, utils.FormatPrice(s.Price), utils.FormatChange(s.PercentChange24h),
			utils.FormatBillions(s.MarketCap), utils.FormatBillions(s.Volume24h))
	}
	return b.String()
}

// -----------------------------------------------------------------------------

// Headline is the boxed title shown above the rendered report.
func Headline(r *models.MReport) string {
	title := fmt.Sprintf("Crypto Market Analysis · %s", r.ReportDate)
	meta := fmt.Sprintf("%s · top %d · %s · report %s", r.Options.Timeframe, r.Options.TopN, r.Options.UseCase, r.ID)
	return lipgloss.JoinVertical(lipgloss.Left, headline.Render(title), muted.Render(meta))
}

// -----------------------------------------------------------------------------

// Terminal renders the report for a terminal with the given glamour style
// ("dark", "light", "notty", ...).
func Terminal(r *models.MReport, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if style == "" {
		style = "dark"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	body, err := renderer.Render(Markdown(r))
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return Headline(r) + "\n" + body, nil
}
