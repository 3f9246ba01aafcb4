package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"crypto-analyst/src/models"
	"crypto-analyst/src/render"

	"github.com/spf13/cobra"
)

type reportFlags struct {
	Timeframe string
	TopN      int
	UseCase   string
	Note      string
	Coins     []string
	Style     string
	Width     int
	Format    string
	Timeout   time.Duration
}

var (
	repFlags reportFlags

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Run one refresh and print the report",
		Example: `  crypto-analyst report --coins BTC,ETH --timeframe 7D
  crypto-analyst report --use-case "Sentiment Focused" --format json`,
		RunE: runReport,
	}
)

// Output formats of the report command
const (
	FormatTerminal = "terminal"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// -----------------------------------------------------------------------------

func init() {
	f := reportCmd.Flags()
	f.StringVar(&repFlags.Timeframe, "timeframe", "", "analysis timeframe (24H, 7D, 30D, 90D)")
	f.IntVar(&repFlags.TopN, "top-n", 0, "number of top coins to analyse (5-20)")
	f.StringVar(&repFlags.UseCase, "use-case", "", "report emphasis (General Overview, In-depth Technical Analysis, Sentiment Focused, Custom)")
	f.StringVar(&repFlags.Note, "note", "", "additional note passed to the analysts")
	f.StringSliceVar(&repFlags.Coins, "coins", nil, "explicit coin symbols, e.g. BTC,ETH")
	f.StringVar(&repFlags.Style, "style", "dark", "glamour style for terminal output")
	f.IntVar(&repFlags.Width, "width", render.DefaultWidth, "word wrap width for terminal output")
	f.StringVar(&repFlags.Format, "format", FormatTerminal, "output format (terminal, markdown, json)")
	f.DurationVar(&repFlags.Timeout, "timeout", 3*time.Minute, "overall refresh timeout")
}

// -----------------------------------------------------------------------------

func runReport(cmd *cobra.Command, _ []string) error {
	if err := repFlags.validate(); err != nil {
		return err
	}

	conf, appLogger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), repFlags.Timeout)
	defer cancel()

	comps, err := setupComponents(ctx, conf, appLogger)
	if err != nil {
		return err
	}

	report, err := comps.Analyst.Refresh(ctx, repFlags.options())
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), report, repFlags)
}

// -----------------------------------------------------------------------------

// validate rejects flag values that would only fail after a full refresh.
func (f reportFlags) validate() error {
	switch f.Format {
	case FormatTerminal, FormatMarkdown, FormatJSON, "":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s, %s or %s)", f.Format, FormatTerminal, FormatMarkdown, FormatJSON)
}

// -----------------------------------------------------------------------------

// options converts the command flags into refresh options. Zero values fall
// back to the configured defaults inside the pipeline.
func (f reportFlags) options() models.MAnalysisOptions {
	return models.MAnalysisOptions{
		Timeframe:      strings.ToUpper(strings.TrimSpace(f.Timeframe)),
		TopN:           f.TopN,
		UseCase:        strings.TrimSpace(f.UseCase),
		AdditionalNote: strings.TrimSpace(f.Note),
		Coins:          f.Coins,
	}
}

// -----------------------------------------------------------------------------

func writeReport(w io.Writer, report *models.MReport, f reportFlags) error {
	switch f.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatMarkdown:
		_, err := io.WriteString(w, render.Markdown(report))
		return err
	case FormatTerminal, "":
		out, err := render.Terminal(report, f.Style, f.Width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return f.validate()
	}
}
