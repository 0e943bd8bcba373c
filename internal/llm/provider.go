package llm

import (
	"context"

	"github.com/yojanadost/yojanadost/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete answers a single user question
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompleteRequest contains the input for a completion
type CompleteRequest struct {
	// System is the system prompt (if empty, use the configured one)
	System string

	// Prompt is the user's question
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompleteResponse contains the provider's answer
type CompleteResponse struct {
	// Text is the generated answer, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// SystemPrompt frames every answer
	SystemPrompt string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:     "", // Disabled by default
		Model:        "",
		Timeout:      30,
		MaxTokens:    500,
		SystemPrompt: model.DefaultSystemPrompt,
	}
}

// resolve fills request fields from the provider config
func (c Config) resolve(req CompleteRequest, defaultModel string) CompleteRequest {
	if req.System == "" {
		req.System = c.SystemPrompt
	}
	if req.System == "" {
		req.System = model.DefaultSystemPrompt
	}
	if req.Model == "" {
		req.Model = c.Model
	}
	if req.Model == "" {
		req.Model = defaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.MaxTokens
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 500
	}
	return req
}
