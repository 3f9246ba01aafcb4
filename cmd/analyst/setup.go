package main

import (
	"context"
	"os"

	"crypto-analyst/src/analyst"
	"crypto-analyst/src/config"
	datasource "crypto-analyst/src/data_source"
	"crypto-analyst/src/data_source/alpaca"
	"crypto-analyst/src/data_source/coinmarketcap"
	"crypto-analyst/src/data_source/feargreed"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
	"crypto-analyst/src/narrative"
	"crypto-analyst/src/network"
)

// components holds everything a command needs to run refreshes.
type components struct {
	Sources *datasource.SourceManager
	Analyst *analyst.Analyst
}

// -----------------------------------------------------------------------------

func setupNetwork(cfg *models.MConfig, log *logger.Logger) interfaces.INetworkManager {
	return network.NewNetworkManager(cfg, logger.NewLogger(cfg, log.Name()+".network"))
}

// -----------------------------------------------------------------------------

// setupDataSources registers the configured provider, plus the other one when
// its credentials are present in the environment, so gRPC SetSource can switch.
func setupDataSources(cfg *models.MConfig, log *logger.Logger, netMgr interfaces.INetworkManager) *datasource.SourceManager {
	var sources []interfaces.IMarketDataSource

	switch cfg.DataSource.Provider {
	case config.ProviderAlpaca:
		sources = append(sources, alpaca.NewAlpacaSource(cfg, log))
		if key := os.Getenv("COINMARKETCAP_API_KEY"); key != "" {
			alt := alternateConfig(cfg, key, "")
			sources = append(sources, coinmarketcap.NewCoinMarketCapSource(alt, netMgr, log))
		}
	default:
		sources = append(sources, coinmarketcap.NewCoinMarketCapSource(cfg, netMgr, log))
		key, secret := os.Getenv("ALPACA_API_KEY"), os.Getenv("ALPACA_API_SECRET")
		if key != "" && secret != "" {
			alt := alternateConfig(cfg, key, secret)
			sources = append(sources, alpaca.NewAlpacaSource(alt, log))
		}
	}

	return datasource.NewSourceManager(sources, cfg.DataSource.Provider, log)
}

// -----------------------------------------------------------------------------

// alternateConfig copies cfg with the secondary provider's credentials.
// The base URL override only applies to the configured provider.
func alternateConfig(cfg *models.MConfig, key, secret string) *models.MConfig {
	alt := *cfg
	alt.DataSource.APIKey = key
	alt.DataSource.APISecret = secret
	alt.DataSource.BaseURL = ""
	return &alt
}

// -----------------------------------------------------------------------------

func setupSentiment(cfg *models.MConfig, log *logger.Logger, netMgr interfaces.INetworkManager) interfaces.ISentimentSource {
	return feargreed.NewFearGreedSource(cfg, netMgr, log)
}

// -----------------------------------------------------------------------------

func setupComponents(ctx context.Context, conf *config.Config, log *logger.Logger) (*components, error) {
	cfg := conf.MConfig

	netMgr := setupNetwork(cfg, log)
	sources := setupDataSources(cfg, log, netMgr)
	sentiment := setupSentiment(cfg, log, netMgr)

	generator, err := narrative.NewGeminiGenerator(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("Data sources: %v (active: %s)", sources.Names(), sources.Name())
	return &components{
		Sources: sources,
		Analyst: analyst.NewAnalyst(sources, sentiment, generator, cfg, log),
	}, nil
}
