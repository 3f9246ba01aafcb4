package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"crypto-analyst/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFlagsOptions(t *testing.T) {
	f := reportFlags{Timeframe: " 7d ", TopN: 5, UseCase: " Sentiment Focused", Note: " watch ETH ", Coins: []string{"BTC", "ETH"}}
	assert.Equal(t, models.MAnalysisOptions{
		Timeframe:      "7D",
		TopN:           5,
		UseCase:        models.UseCaseSentiment,
		AdditionalNote: "watch ETH",
		Coins:          []string{"BTC", "ETH"},
	}, f.options())

	assert.Equal(t, models.MAnalysisOptions{}, reportFlags{}.options())
}

func TestWriteReportFormats(t *testing.T) {
	r := &models.MReport{
		ID:               "r-1",
		ReportDate:       "June 1, 2024",
		Narrative:        models.MNarrative{ExecutiveReport: "Hold BTC."},
		ExecutiveSummary: "### Executive Summary for June 1, 2024\n\nHold BTC.",
	}

	var md bytes.Buffer
	require.NoError(t, writeReport(&md, r, reportFlags{Format: FormatMarkdown}))
	assert.Contains(t, md.String(), "## Final Report")
	assert.Contains(t, md.String(), "Hold BTC.")

	var js bytes.Buffer
	require.NoError(t, writeReport(&js, r, reportFlags{Format: FormatJSON}))
	var decoded models.MReport
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "r-1", decoded.ID)

	var term bytes.Buffer
	require.NoError(t, writeReport(&term, r, reportFlags{Format: FormatTerminal, Style: "notty", Width: 80}))
	assert.Contains(t, term.String(), "Hold BTC.")

	assert.Error(t, writeReport(&bytes.Buffer{}, r, reportFlags{Format: "pdf"}))
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["report"])
	assert.True(t, names["config"])

	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config/default.yaml", flag.DefValue)
}

func TestRunReportRejectsFormatBeforeRefresh(t *testing.T) {
	prevFlags, prevPath := repFlags, configPath
	defer func() { repFlags, configPath = prevFlags, prevPath }()

	repFlags = reportFlags{Format: "pdf"}
	// A missing config would fail later; the format error must come first
	configPath = filepath.Join(t.TempDir(), "missing.yaml")

	err := runReport(reportCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "pdf"`)

	assert.NoError(t, reportFlags{Format: FormatJSON}.validate())
	assert.NoError(t, reportFlags{}.validate())
}
