package analyst

import (
	"context"
	"sync"
	"time"

	"crypto-analyst/src/analysis"
	"crypto-analyst/src/config"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
	"crypto-analyst/src/narrative"
	"crypto-analyst/src/report"

	"golang.org/x/sync/errgroup"
)

var _ interfaces.IAnalyst = (*Analyst)(nil)

// Analyst runs one refresh pass: fetch, aggregate, narrate, assemble.
type Analyst struct {
	Source    interfaces.IMarketDataSource
	Sentiment interfaces.ISentimentSource // Optional
	Narrator  *narrative.Narrator
	Assembler *report.Assembler
	Logger    *logger.Logger
	Now       func() time.Time

	mu       sync.RWMutex
	defaults models.MAnalysisOptions
}

// -----------------------------------------------------------------------------

func NewAnalyst(
	source interfaces.IMarketDataSource,
	sentiment interfaces.ISentimentSource,
	generator interfaces.INarrativeGenerator,
	cfg *models.MConfig,
	log *logger.Logger,
) *Analyst {
	return &Analyst{
		Source:    source,
		Sentiment: sentiment,
		Narrator:  narrative.NewNarrator(generator, log),
		Assembler: report.NewAssembler(cfg.Report.MinNarrativeChars),
		Logger:    log,
		Now:       time.Now,
		defaults:  cfg.Report.DefaultOptions,
	}
}

// -----------------------------------------------------------------------------

func (a *Analyst) DefaultOptions() models.MAnalysisOptions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.defaults
}

// -----------------------------------------------------------------------------

// SetDefaults replaces the options used for fields a refresh leaves empty.
// Invalid defaults are rejected and the previous ones kept.
func (a *Analyst) SetDefaults(opts models.MAnalysisOptions) error {
	if err := config.ValidateOptions(opts); err != nil {
		return err
	}
	a.mu.Lock()
	a.defaults = opts
	a.mu.Unlock()
	a.Logger.Info("Default options updated: timeframe=%s top_n=%d use_case=%q", opts.Timeframe, opts.TopN, opts.UseCase)
	return nil
}

// -----------------------------------------------------------------------------

// Refresh runs the whole pipeline once. DataUnavailable and ReportIncomplete
// errors are returned unchanged; invalid options yield a ValidationError.
func (a *Analyst) Refresh(ctx context.Context, options models.MAnalysisOptions) (*models.MReport, error) {
	opts := config.MergeOptions(a.DefaultOptions(), options)
	if err := config.ValidateOptions(opts); err != nil {
		return nil, err
	}

	start := a.Now()
	a.Logger.Info("Refresh started: source=%s timeframe=%s top_n=%d use_case=%q", a.Source.Name(), opts.Timeframe, opts.TopN, opts.UseCase)

	// 1. Fetch market snapshot and sentiment concurrently
	snapshots, sentiment, err := a.fetch(ctx, opts)
	if err != nil {
		a.Logger.Error("Refresh failed while fetching: %v", err)
		return nil, err
	}

	// 2. Aggregate
	metrics := analysis.Aggregate(snapshots)

	// 3. Narrate
	promptCtx := narrative.PromptContext{
		ReportDate: start.UTC().Format(models.ReportDateLayout),
		Options:    opts,
		Metrics:    metrics,
		Sentiment:  sentiment,
	}
	text, err := a.Narrator.Compose(ctx, promptCtx)
	if err != nil {
		return nil, err
	}

	// 4. Assemble
	rep, err := a.Assembler.Assemble(report.Input{
		GeneratedAt: start,
		Options:     opts,
		Snapshots:   snapshots,
		Metrics:     metrics,
		Sentiment:   sentiment,
		Narrative:   text,
	})
	if err != nil {
		a.Logger.Error("Refresh failed while assembling: %v", err)
		return nil, err
	}

	a.Logger.Info("Refresh done: report %s with %d coins in %v", rep.ID, metrics.CoinCount, a.Now().Sub(start).Round(time.Millisecond))
	return rep, nil
}

// -----------------------------------------------------------------------------

// fetch loads snapshots and sentiment in parallel. Only the snapshot fetch
// can fail the pass; a sentiment failure leaves the index unavailable.
func (a *Analyst) fetch(ctx context.Context, opts models.MAnalysisOptions) ([]models.MMarketSnapshot, models.MSentimentIndex, error) {
	var (
		snapshots []models.MMarketSnapshot
		sentiment models.MSentimentIndex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshots, err = a.Source.FetchSnapshots(gctx, opts.Coins, opts.TopN)
		return err
	})
	if a.Sentiment != nil {
		g.Go(func() error {
			idx, err := a.Sentiment.FetchSentiment(gctx)
			if err != nil {
				a.Logger.Warning("Sentiment unavailable: %v", err)
				return nil
			}
			sentiment = idx
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, models.MSentimentIndex{}, err
	}
	return snapshots, sentiment, nil
}
