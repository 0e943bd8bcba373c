package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yojanadost/yojanadost/internal/cache"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *CompleteResponse
	err       error
	delay     time.Duration
	calls     atomic.Int32
	lastReq   CompleteRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	m.calls.Add(1)
	m.lastReq = req
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func TestNewResponder_DisabledProvider(t *testing.T) {
	responder, err := NewResponder(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if responder != nil {
		t.Error("Expected nil responder when disabled")
	}

	// A nil responder reports no provider instead of panicking
	if _, err := responder.Answer(context.Background(), "hi"); !errors.Is(err, ErrNoProvider) {
		t.Errorf("Expected ErrNoProvider, got %v", err)
	}
	if responder.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}
}

func TestNewResponder_UnknownProvider(t *testing.T) {
	if _, err := NewResponder(Config{Provider: "gemini"}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestResponder_Answer_Success(t *testing.T) {
	mock := &MockProvider{
		name:     "test-provider",
		response: &CompleteResponse{Text: " An answer. "},
	}
	responder := NewResponderWithProvider(mock, Config{SystemPrompt: "be brief", MaxTokens: 100})

	text, err := responder.Answer(context.Background(), "what is pmay")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if text != "An answer." {
		t.Errorf("Unexpected answer: %q", text)
	}
	if mock.lastReq.System != "be brief" || mock.lastReq.Prompt != "what is pmay" || mock.lastReq.MaxTokens != 100 {
		t.Errorf("Unexpected request: %+v", mock.lastReq)
	}
	if responder.ProviderName() != "test-provider" {
		t.Errorf("Expected provider name test-provider, got %s", responder.ProviderName())
	}
}

func TestResponder_Answer_ErrorNotCachedOrRetried(t *testing.T) {
	mock := &MockProvider{name: "test-provider", err: errors.New("connection refused")}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	responder := NewResponderWithProvider(mock, Config{}, WithCache(c, time.Minute))

	if _, err := responder.Answer(context.Background(), "q"); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if mock.calls.Load() != 1 {
		t.Errorf("Expected exactly 1 call (no retry), got %d", mock.calls.Load())
	}
	if c.Len() != 0 {
		t.Error("Failures must not be cached")
	}
}

func TestResponder_Answer_EmptyTextIsError(t *testing.T) {
	mock := &MockProvider{name: "test-provider", response: &CompleteResponse{Text: "   "}}
	responder := NewResponderWithProvider(mock, Config{})

	if _, err := responder.Answer(context.Background(), "q"); err == nil {
		t.Fatal("Expected error for blank answer")
	}
}

func TestResponder_Answer_Cached(t *testing.T) {
	mock := &MockProvider{name: "test-provider", response: &CompleteResponse{Text: "cached answer"}}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	responder := NewResponderWithProvider(mock, Config{}, WithCache(c, time.Minute))

	for _, q := range []string{"Solar Pumps", "solar pumps ", "SOLAR PUMPS"} {
		text, err := responder.Answer(context.Background(), q)
		if err != nil {
			t.Fatalf("Answer failed: %v", err)
		}
		if text != "cached answer" {
			t.Errorf("Unexpected answer: %q", text)
		}
	}

	if mock.calls.Load() != 1 {
		t.Errorf("Expected provider to be called once, got %d", mock.calls.Load())
	}
}

func TestResponder_Answer_Timeout(t *testing.T) {
	mock := &MockProvider{
		name:     "slow-provider",
		response: &CompleteResponse{Text: "too late"},
		delay:    time.Second,
	}
	responder := NewResponderWithProvider(mock, Config{}, WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := responder.Answer(context.Background(), "q")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Timeout was not enforced")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	tests := []struct {
		config   Config
		wantName string
		wantErr  bool
	}{
		{Config{Provider: "openai", APIKey: "k"}, "openai", false},
		{Config{Provider: "OpenAI", APIKey: "k"}, "openai", false},
		{Config{Provider: "claude", APIKey: "k"}, "anthropic", false},
		{Config{Provider: "ollama", Model: "llama3.1"}, "ollama", false},
		{Config{Provider: "openai"}, "", true},
		{Config{Provider: "bogus"}, "", true},
	}

	for _, tt := range tests {
		p, err := NewProvider(tt.config)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewProvider(%q): expected error", tt.config.Provider)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewProvider(%q): unexpected error %v", tt.config.Provider, err)
			continue
		}
		if p.Name() != tt.wantName {
			t.Errorf("NewProvider(%q): got %s, want %s", tt.config.Provider, p.Name(), tt.wantName)
		}
	}

	p, err := NewProvider(Config{})
	if err != nil || p != nil {
		t.Errorf("Expected nil provider for empty config, got %v, %v", p, err)
	}
}

func TestResponder_Probe(t *testing.T) {
	up := NewResponderWithProvider(&MockProvider{name: "mock", available: true}, Config{})
	if !up.Probe(context.Background()) {
		t.Error("Expected available provider to probe true")
	}

	down := NewResponderWithProvider(&MockProvider{name: "mock"}, Config{})
	if down.Probe(context.Background()) {
		t.Error("Expected unavailable provider to probe false")
	}

	var none *Responder
	if none.Probe(context.Background()) {
		t.Error("Expected nil responder to probe false")
	}
}
