package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	GrpcHost   string            `yaml:"grpc_host"`
	GrpcPort   int               `yaml:"grpc_port"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	LLM        MLLMConfig        `yaml:"llm"`
	Report     MReportConfig     `yaml:"report"`
}

type MNetworkConfig struct {
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	UserAgent      string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	Provider     string   `yaml:"provider"` // "coinmarketcap" or "alpaca"
	BaseURL      string   `yaml:"base_url"` // Optional override, used by tests and sandboxes
	Coins        []string `yaml:"coins"`    // Empty means "top N by market cap"
	APIKey       string   `yaml:"api_key"`
	APISecret    string   `yaml:"api_secret"` // Alpaca only
	SentimentURL string   `yaml:"sentiment_url"`
}

type MLLMConfig struct {
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float32 `yaml:"temperature"`
	// EnableGoogleSearch lets the news-driven sections ground on Google Search results
	EnableGoogleSearch bool `yaml:"enable_google_search"`
}

type MReportConfig struct {
	MinNarrativeChars int              `yaml:"min_narrative_chars"`
	DefaultOptions    MAnalysisOptions `yaml:"default_options"`
}

// LogLevelName exposes the configured level to the logger without an import cycle.
func (c *MConfig) LogLevelName() string {
	return c.LogLevel
}
