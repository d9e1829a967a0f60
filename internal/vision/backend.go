// Package vision is the protocol adapter between the extraction pipeline and
// the multimodal chat backends. It shapes one chat-style request per call
// (system prompt + user text + image part), sends it to the configured
// provider, and hands back the raw assistant text. It holds no business
// logic, caches nothing, and never retries.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Provider selects one of the interchangeable chat backends. Selection is an
// explicit configuration value, never structural sniffing of responses.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
)

// Config is the backend configuration threaded explicitly into every call
// path. The core reads no ambient state; callers own where these values come
// from.
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	BaseURL     string // optional override; provider default when empty
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	// OpenRouter attribution headers; ignored by other providers.
	Referer  string
	AppTitle string
}

// ChatRequest is one multimodal chat call: a system prompt, a user prompt,
// and the screenshot as a data URL image part.
type ChatRequest struct {
	System       string
	UserText     string
	ImageDataURL string
}

// Backend sends one chat request and returns the raw assistant text. The
// caller is responsible for stripping Markdown fences before parsing.
type Backend interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// NewBackend builds the backend named by cfg.Provider. The optional limiter
// is waited on before every outgoing call; pass nil for no rate limiting.
func NewBackend(cfg Config, limiter *rate.Limiter, logger *slog.Logger) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vision: api key is required for provider %q", cfg.Provider)
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAI(cfg, limiter, logger), nil
	case ProviderOpenRouter:
		return newOpenRouter(cfg, limiter, logger), nil
	case "":
		return nil, fmt.Errorf("vision: provider is required")
	default:
		return nil, fmt.Errorf("vision: unknown provider: %s", cfg.Provider)
	}
}

// chatBody builds the provider-agnostic chat/completions request body. Both
// providers accept the OpenAI wire shape; they differ only in endpoint, auth
// headers, and response extraction.
func chatBody(cfg Config, req ChatRequest) map[string]any {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	userContent := []map[string]any{
		{"type": "text", "text": req.UserText},
		{"type": "image_url", "image_url": map[string]any{"url": req.ImageDataURL}},
	}
	return map[string]any{
		"model":       cfg.Model,
		"temperature": cfg.Temperature,
		"max_tokens":  maxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": req.System},
			{"role": "user", "content": userContent},
		},
	}
}
