package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported market data providers
const (
	ProviderCoinMarketCap = "coinmarketcap"
	ProviderAlpaca        = "alpaca"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config from a YAML file, a .env file (if present) and the environment
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Secrets come from .env / environment, never from the YAML in practice
	LoadDotEnv()
	config.ApplyEnvOverrides()
	config.ApplyDefaults()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// LoadDotEnv loads .env from the working directory. A missing file is not an error.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// -----------------------------------------------------------------------------

// ApplyEnvOverrides copies API keys and the model name from the environment
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}

	switch strings.ToLower(c.DataSource.Provider) {
	case ProviderAlpaca:
		if v := os.Getenv("ALPACA_API_KEY"); v != "" {
			c.DataSource.APIKey = v
		}
		if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
			c.DataSource.APISecret = v
		}
	default:
		if v := os.Getenv("COINMARKETCAP_API_KEY"); v != "" {
			c.DataSource.APIKey = v
		}
	}
}

// -----------------------------------------------------------------------------

// ApplyDefaults fills optional fields left empty in the YAML
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "crypto-analyst"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderCoinMarketCap
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.SentimentURL == "" {
		c.DataSource.SentimentURL = "https://api.alternative.me/fng/"
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 10
	}
	if c.Report.MinNarrativeChars == 0 {
		c.Report.MinNarrativeChars = 20
	}

	opts := &c.Report.DefaultOptions
	if opts.Timeframe == "" {
		opts.Timeframe = "24H"
	}
	if opts.TopN == 0 {
		opts.TopN = 10
	}
	if opts.UseCase == "" {
		opts.UseCase = models.UseCaseGeneral
	}
	if len(opts.Coins) == 0 {
		opts.Coins = c.DataSource.Coins
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return helpers.NewConfiguration("application name cannot be empty")
	}

	// Server
	if c.Host == "" {
		return helpers.NewConfiguration("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return helpers.NewConfiguration("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return helpers.NewConfiguration("invalid grpc port number: %d", c.GrpcPort)
	}

	// Network
	if c.Network.RequestTimeout <= 0 {
		return helpers.NewConfiguration("request timeout must be greater than 0")
	}

	// DataSource
	switch c.DataSource.Provider {
	case ProviderCoinMarketCap:
		if c.DataSource.APIKey == "" {
			return helpers.NewConfiguration("missing environment variable: COINMARKETCAP_API_KEY")
		}
	case ProviderAlpaca:
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return helpers.NewConfiguration("missing environment variables: ALPACA_API_KEY / ALPACA_API_SECRET")
		}
	default:
		return helpers.NewConfiguration("unsupported data provider: %s", c.DataSource.Provider)
	}
	for i, coin := range c.DataSource.Coins {
		if strings.TrimSpace(coin) == "" {
			return helpers.NewConfiguration("coin %d cannot be empty", i)
		}
	}

	// LLM
	if c.LLM.Model == "" {
		return helpers.NewConfiguration("missing environment variable: MODEL")
	}
	if c.LLM.APIKey == "" {
		return helpers.NewConfiguration("missing environment variable: GEMINI_API_KEY")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return helpers.NewConfiguration("llm temperature must be within [0, 2]")
	}

	// Report
	if c.Report.MinNarrativeChars < 1 {
		return helpers.NewConfiguration("min_narrative_chars must be at least 1")
	}
	if err := ValidateOptions(c.Report.DefaultOptions); err != nil {
		return fmt.Errorf("default_options: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// ValidateOptions checks the user controls of one refresh
func ValidateOptions(o models.MAnalysisOptions) error {
	if !slices.Contains(models.Timeframes, o.Timeframe) {
		return helpers.NewValidation("timeframe %q must be one of %v", o.Timeframe, models.Timeframes)
	}
	if o.TopN < models.MinTopN || o.TopN > models.MaxTopN {
		return helpers.NewValidation("top_n %d must be between %d and %d", o.TopN, models.MinTopN, models.MaxTopN)
	}
	if !slices.Contains(models.UseCases, o.UseCase) {
		return helpers.NewValidation("use_case %q must be one of %v", o.UseCase, models.UseCases)
	}
	for i, coin := range o.Coins {
		if strings.TrimSpace(coin) == "" {
			return helpers.NewValidation("coin %d cannot be empty", i)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// MergeOptions overlays the non-zero fields of o onto base
func MergeOptions(base, o models.MAnalysisOptions) models.MAnalysisOptions {
	merged := base
	if o.Timeframe != "" {
		merged.Timeframe = o.Timeframe
	}
	if o.TopN != 0 {
		merged.TopN = o.TopN
	}
	if o.UseCase != "" {
		merged.UseCase = o.UseCase
	}
	if o.AdditionalNote != "" {
		merged.AdditionalNote = o.AdditionalNote
	}
	if len(o.Coins) > 0 {
		merged.Coins = o.Coins
	}
	return merged
}

// -----------------------------------------------------------------------------

// Marshal renders the configuration as YAML with secrets blanked.
func (c *Config) Marshal() ([]byte, error) {
	out := *c.MConfig
	out.DataSource.APIKey = ""
	out.DataSource.APISecret = ""
	out.LLM.APIKey = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	return data, nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path.
// Secrets are blanked so they never land on disk.
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
