package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptContext() PromptContext {
	return PromptContext{
		ReportDate: "June 1, 2024",
		Options:    models.MAnalysisOptions{Timeframe: "7D", TopN: 5, UseCase: models.UseCaseGeneral},
		Metrics: models.MAggregateMetrics{
			CoinCount:         2,
			TotalMarketCap:    1_665_000_000_000,
			TotalVolume24h:    45_000_000_000,
			AverageChange24h:  0.6,
			TopGainer:         &models.MMover{ID: "BTC", Price: 65000, PercentChange24h: 2.3},
			TopLoser:          &models.MMover{ID: "ETH", Price: 3200, PercentChange24h: -1.1},
			RankedByMarketCap: []string{"BTC", "ETH"},
			VolatilityBuckets: map[string][]string{models.BucketModerate: {"BTC", "ETH"}},
			SentimentScore:    53,
		},
		Sentiment: models.MSentimentIndex{Value: 42, Classification: "Fear", Available: true},
	}
}

func TestBuildPromptMarketAnalysis(t *testing.T) {
	p, err := BuildPrompt(models.SectionMarketAnalysis, promptContext())
	require.NoError(t, err)

	assert.Equal(t, models.SectionMarketAnalysis, p.Section)
	assert.Contains(t, p.SystemInstruction, "Senior Market Research Analyst")
	assert.Contains(t, p.Prompt, "**Report Date:** June 1, 2024")
	assert.Contains(t, p.Prompt, "1. Analyze current market conditions and trends over the past 7D.")
	assert.Contains(t, p.Prompt, "top 5 cryptocurrencies")
	assert.Contains(t, p.Prompt, "Total Market Cap: $1665.00B")
	assert.Contains(t, p.Prompt, "Top Gainer: BTC +2.30%")
	assert.Contains(t, p.Prompt, "Top Loser: ETH -1.10%")
	assert.Contains(t, p.Prompt, "Fear & Greed Index: 42 (Fear)")
	assert.NotContains(t, p.Prompt, "Note:")
}

func TestBuildPromptExecutiveReport(t *testing.T) {
	c := promptContext()
	c.Options.AdditionalNote = "focus on layer 2"
	c.Previous.MarketAnalysis = "Markets drifted higher."
	c.Sentiment = models.MSentimentIndex{}

	p, err := BuildPrompt(models.SectionExecutiveReport, c)
	require.NoError(t, err)
	assert.Contains(t, p.Prompt, "Note: focus on layer 2")
	assert.Contains(t, p.Prompt, "--- Market Analysis ---\nMarkets drifted higher.")
	assert.NotContains(t, p.Prompt, "--- Technical Analysis ---")
	assert.Contains(t, p.Prompt, "Fear & Greed Index: unavailable")
}

func TestBuildPromptUseCaseEmphasis(t *testing.T) {
	c := promptContext()
	c.Options.UseCase = models.UseCaseCustom
	c.Options.AdditionalNote = "compare to 2021"

	p, err := BuildPrompt(models.SectionTechnicalAnalysis, c)
	require.NoError(t, err)
	assert.Contains(t, p.Prompt, "Emphasis: compare to 2021")
}

func TestBuildPromptNoData(t *testing.T) {
	c := promptContext()
	c.Metrics = models.MAggregateMetrics{NoData: true, SentimentScore: 50}

	p, err := BuildPrompt(models.SectionSentimentAnalysis, c)
	require.NoError(t, err)
	assert.Contains(t, p.Prompt, "No market data was available")
	assert.NotContains(t, p.Prompt, "Top Gainer")
}

func TestBuildPromptUnknownSection(t *testing.T) {
	_, err := BuildPrompt("weather", promptContext())
	assert.True(t, helpers.IsValidation(err))
}

func TestBuildPromptGrounding(t *testing.T) {
	c := promptContext()
	c.WebSearch = true

	for section, want := range map[string]bool{
		models.SectionMarketAnalysis:    true,
		models.SectionTechnicalAnalysis: false,
		models.SectionSentimentAnalysis: true,
		models.SectionExecutiveReport:   false,
	} {
		p, err := BuildPrompt(section, c)
		require.NoError(t, err)
		assert.Equal(t, want, p.Grounded, section)
	}

	p, err := BuildPrompt(models.SectionSentimentAnalysis, c)
	require.NoError(t, err)
	assert.Contains(t, p.Prompt, "1. Analyze the latest news and social media sentiment.")
	assert.Contains(t, p.Prompt, "Search the web for news and social media from the past 7D")
}

func TestBuildPromptWithoutSearchAsksForNoNews(t *testing.T) {
	for _, section := range models.NarrativeSections {
		p, err := BuildPrompt(section, promptContext())
		require.NoError(t, err)
		assert.False(t, p.Grounded, section)
		assert.NotContains(t, p.Prompt, "latest news", section)
		assert.Contains(t, p.Prompt, "do not cite specific news events", section)
	}
}

type scriptedGenerator struct {
	failOn  string
	prompts []models.MNarrativePrompt
}

func (g *scriptedGenerator) Generate(_ context.Context, p models.MNarrativePrompt) (string, error) {
	g.prompts = append(g.prompts, p)
	if p.Section == g.failOn {
		return "", errors.New("quota exceeded")
	}
	return "Generated text for " + p.Section, nil
}

func TestNarratorComposesInOrder(t *testing.T) {
	gen := &scriptedGenerator{}
	n := NewNarrator(gen, logger.NewNopLogger("test"))

	out, err := n.Compose(context.Background(), promptContext())
	require.NoError(t, err)
	require.Len(t, gen.prompts, 4)

	for i, section := range models.NarrativeSections {
		assert.Equal(t, section, gen.prompts[i].Section)
		assert.Equal(t, "Generated text for "+section, out.Section(section))
	}
	last := gen.prompts[3].Prompt
	assert.True(t, strings.Contains(last, "Generated text for "+models.SectionSentimentAnalysis))
}

func TestNarratorStopsOnFailure(t *testing.T) {
	gen := &scriptedGenerator{failOn: models.SectionTechnicalAnalysis}
	n := NewNarrator(gen, logger.NewNopLogger("test"))

	out, err := n.Compose(context.Background(), promptContext())
	require.Error(t, err)
	assert.True(t, helpers.IsReportIncomplete(err))
	assert.Len(t, gen.prompts, 2)
	assert.NotEmpty(t, out.MarketAnalysis)
	assert.Empty(t, out.ExecutiveReport)

	var incomplete *helpers.ReportIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{models.SectionTechnicalAnalysis}, incomplete.Sections)
}

func TestNarratorHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGenerator{}
	_, err := NewNarrator(gen, logger.NewNopLogger("test")).Compose(ctx, promptContext())
	assert.True(t, helpers.IsReportIncomplete(err))
	assert.Empty(t, gen.prompts)
}

type searchingGenerator struct {
	scriptedGenerator
}

func (g *searchingGenerator) IsGoogleSearchEnabled() bool { return true }

func TestNarratorGroundsWhenGeneratorSearches(t *testing.T) {
	gen := &searchingGenerator{}
	_, err := NewNarrator(gen, logger.NewNopLogger("test")).Compose(context.Background(), promptContext())
	require.NoError(t, err)
	require.Len(t, gen.prompts, 4)

	assert.True(t, gen.prompts[0].Grounded)
	assert.False(t, gen.prompts[1].Grounded)
	assert.True(t, gen.prompts[2].Grounded)
	assert.False(t, gen.prompts[3].Grounded)
}

func TestNarratorDoesNotGroundPlainGenerator(t *testing.T) {
	gen := &scriptedGenerator{}
	_, err := NewNarrator(gen, logger.NewNopLogger("test")).Compose(context.Background(), promptContext())
	require.NoError(t, err)
	for _, p := range gen.prompts {
		assert.False(t, p.Grounded, p.Section)
	}
}
