package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yojanadost/yojanadost/internal/model"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("YOJANA_SERVER_ADDR", ":8080")
	t.Setenv("YOJANA_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("YOJANA_MATCHING_THRESHOLD", "80")
	t.Setenv("YOJANA_CACHE_TTL", "5m")
	t.Setenv("YOJANA_CACHE_DIR", "/var/cache/yojanadost")
	t.Setenv("YOJANA_CATALOG_MODE", "Tolerant")

	v := viper.New()
	configureEnv(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 80, cfg.Matching.Threshold)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "/var/cache/yojanadost", cfg.Cache.Dir)
	assert.Equal(t, model.CatalogTolerant, cfg.Catalog.Mode)
}

func TestLoadConfig_ProviderKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.local:11434")

	tests := []struct {
		provider string
		apiKey   string
		baseURL  string
	}{
		{"openai", "sk-openai", ""},
		{"Anthropic", "sk-ant", ""},
		{"ollama", "", "http://ollama.local:11434"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			v := viper.New()
			v.Set("llm.provider", tt.provider)

			cfg, err := loadConfig(v)
			require.NoError(t, err)
			assert.Equal(t, tt.apiKey, cfg.LLM.APIKey)
			assert.Equal(t, tt.baseURL, cfg.LLM.BaseURL)
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]any{
		"catalog.mode":                  "lenient",
		"matching.threshold":            100,
		"matching.fuzzy_limit":          0,
		"rate_limit.requests_per_second": 0,
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			v := viper.New()
			v.Set(key, value)

			_, err := loadConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".yojanadost", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// The file must load back to the defaults
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)

	// Never overwritten
	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestShowConfig_HidesAPIKey(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = "sk-very-secret"

	var buf bytes.Buffer
	require.NoError(t, showConfig(&buf, cfg))

	out := buf.String()
	assert.NotContains(t, out, "sk-very-secret")
	assert.Contains(t, out, "# llm api key: set")
	assert.Contains(t, out, "provider: openai")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitList([]string{"*"}))
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "c"}))
	assert.Nil(t, splitList([]string{" , "}))
	assert.True(t, strings.HasPrefix(configHierarchy, "Configuration hierarchy"))
}
