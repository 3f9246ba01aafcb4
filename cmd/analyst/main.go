package main

import (
	"fmt"
	"os"

	"crypto-analyst/src/config"
	"crypto-analyst/src/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "crypto-analyst",
		Short: "Crypto market snapshot, metrics and AI narrative reports",
		Long: `crypto-analyst fetches a market snapshot for a set of cryptocurrencies,
derives aggregate metrics, asks an AI text generator for narrative
sections and assembles a display-ready report.`,
		SilenceUsage: true,
	}
)

// -----------------------------------------------------------------------------

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/default.yaml", "path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
}

// -----------------------------------------------------------------------------

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// -----------------------------------------------------------------------------

// loadConfig reads the YAML config and builds the application logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	conf, err := config.NewConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}
	return conf, logger.NewLogger(conf, conf.Name), nil
}
