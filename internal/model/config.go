package model

import "time"

// Config holds the complete service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Matching  MatchingConfig  `yaml:"matching"`
	LLM       LLMConfig       `yaml:"llm"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// CatalogMode selects how a catalog load failure is handled
type CatalogMode string

const (
	CatalogStrict   CatalogMode = "strict"   // Fail startup when the catalog cannot be read
	CatalogTolerant CatalogMode = "tolerant" // Serve an empty catalog instead
)

// CatalogConfig locates the scheme catalog
type CatalogConfig struct {
	Source       string        `yaml:"source"` // File path or http(s) URL
	Mode         CatalogMode   `yaml:"mode"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	MaxBytes     int64         `yaml:"max_bytes"`
	AliasesFile  string        `yaml:"aliases_file,omitempty"` // Optional YAML override for alias/synonym tables
}

// MatchingConfig tunes retrieval
type MatchingConfig struct {
	Threshold     int    `yaml:"threshold"`      // Fuzzy score must be strictly greater than this
	FuzzyLimit    int    `yaml:"fuzzy_limit"`    // Max entries rendered for fuzzy matches
	ExampleScheme string `yaml:"example_scheme"` // Suggested in the no-match message
}

// LLMConfig configures the fallback completion provider
type LLMConfig struct {
	Provider     string `yaml:"provider"` // openai, anthropic, ollama, or empty to disable
	Model        string `yaml:"model"`
	APIKey       string `yaml:"-"`
	BaseURL      string `yaml:"base_url,omitempty"`
	Timeout      int    `yaml:"timeout"` // seconds
	MaxTokens    int    `yaml:"max_tokens"`
	SystemPrompt string `yaml:"system_prompt"`
	HTTPProxy    string `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string `yaml:"https_proxy,omitempty"`
}

// CacheConfig controls caching of fallback answers
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	Dir     string        `yaml:"dir,omitempty"` // Also persist answers here when set
}

// RateLimitConfig controls per-client request limiting
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultSystemPrompt is sent with every fallback completion
const DefaultSystemPrompt = "You are a helpful assistant that explains Indian government schemes clearly and briefly."

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":5000",
			RequestTimeout: 45 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Catalog: CatalogConfig{
			Source:       "data/schemes.json",
			Mode:         CatalogStrict,
			FetchTimeout: 15 * time.Second,
			MaxBytes:     10_000_000,
		},
		Matching: MatchingConfig{
			Threshold:     70,
			FuzzyLimit:    3,
			ExampleScheme: "Ayushman Bharat",
		},
		LLM: LLMConfig{
			Provider:     "", // Disabled by default
			Model:        "", // Provider default
			Timeout:      30,
			MaxTokens:    500,
			SystemPrompt: DefaultSystemPrompt,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			BurstSize:         10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
