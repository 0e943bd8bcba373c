package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/yojanadost/yojanadost/internal/model"
)

// configureEnv maps YOJANA_SERVER_ADDR to server.addr, and so on
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("YOJANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every config key so env vars and flags resolve
// even when no config file is present
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("catalog.source", d.Catalog.Source)
	v.SetDefault("catalog.mode", string(d.Catalog.Mode))
	v.SetDefault("catalog.fetch_timeout", d.Catalog.FetchTimeout)
	v.SetDefault("catalog.max_bytes", d.Catalog.MaxBytes)
	v.SetDefault("catalog.aliases_file", d.Catalog.AliasesFile)

	v.SetDefault("matching.threshold", d.Matching.Threshold)
	v.SetDefault("matching.fuzzy_limit", d.Matching.FuzzyLimit)
	v.SetDefault("matching.example_scheme", d.Matching.ExampleScheme)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.system_prompt", d.LLM.SystemPrompt)
	v.SetDefault("llm.http_proxy", d.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", d.LLM.HTTPSProxy)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.dir", d.Cache.Dir)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst_size", d.RateLimit.BurstSize)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// loadConfig resolves the configuration from flags, env, config file and
// defaults, in that order of precedence
func loadConfig(v *viper.Viper) (*model.Config, error) {
	setDefaults(v)

	cfg := &model.Config{
		Server: model.ServerConfig{
			Addr:           v.GetString("server.addr"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
			AllowedOrigins: splitList(v.GetStringSlice("server.allowed_origins")),
		},
		Catalog: model.CatalogConfig{
			Source:       v.GetString("catalog.source"),
			Mode:         model.CatalogMode(strings.ToLower(v.GetString("catalog.mode"))),
			FetchTimeout: v.GetDuration("catalog.fetch_timeout"),
			MaxBytes:     v.GetInt64("catalog.max_bytes"),
			AliasesFile:  v.GetString("catalog.aliases_file"),
		},
		Matching: model.MatchingConfig{
			Threshold:     v.GetInt("matching.threshold"),
			FuzzyLimit:    v.GetInt("matching.fuzzy_limit"),
			ExampleScheme: v.GetString("matching.example_scheme"),
		},
		LLM: model.LLMConfig{
			Provider:     strings.ToLower(v.GetString("llm.provider")),
			Model:        v.GetString("llm.model"),
			APIKey:       v.GetString("llm.api_key"),
			BaseURL:      v.GetString("llm.base_url"),
			Timeout:      v.GetInt("llm.timeout"),
			MaxTokens:    v.GetInt("llm.max_tokens"),
			SystemPrompt: v.GetString("llm.system_prompt"),
			HTTPProxy:    v.GetString("llm.http_proxy"),
			HTTPSProxy:   v.GetString("llm.https_proxy"),
		},
		Cache: model.CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			TTL:     v.GetDuration("cache.ttl"),
			Dir:     v.GetString("cache.dir"),
		},
		RateLimit: model.RateLimitConfig{
			Enabled:           v.GetBool("rate_limit.enabled"),
			RequestsPerSecond: v.GetFloat64("rate_limit.requests_per_second"),
			BurstSize:         v.GetInt("rate_limit.burst_size"),
		},
		Log: model.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	resolveProviderEnv(&cfg.LLM)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveProviderEnv fills credentials from the provider's conventional
// environment variables when the config does not carry them
func resolveProviderEnv(c *model.LLMConfig) {
	switch c.Provider {
	case "openai":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if c.BaseURL == "" {
			c.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}

func validateConfig(cfg *model.Config) error {
	switch cfg.Catalog.Mode {
	case model.CatalogStrict, model.CatalogTolerant:
	default:
		return fmt.Errorf("invalid catalog mode %q (supported: strict, tolerant)", cfg.Catalog.Mode)
	}

	if cfg.Matching.Threshold < 1 || cfg.Matching.Threshold > 99 {
		return fmt.Errorf("matching threshold must be between 1 and 99, got %d", cfg.Matching.Threshold)
	}
	if cfg.Matching.FuzzyLimit < 1 {
		return fmt.Errorf("matching fuzzy_limit must be at least 1, got %d", cfg.Matching.FuzzyLimit)
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit requests_per_second must be positive when enabled")
	}
	return nil
}

// splitList accepts both YAML lists and comma-separated env values
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
