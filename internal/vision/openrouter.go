package vision

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const openRouterDefaultBaseURL = "https://openrouter.ai/api/v1"

// openRouterClient implements Backend against OpenRouter. The wire shape is
// OpenAI-compatible; differences are the endpoint, the attribution headers
// (HTTP-Referer/X-Title), and that some routed models flatten the assistant
// text to a root-level "content" field.
type openRouterClient struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newOpenRouter(cfg Config, limiter *rate.Limiter, logger *slog.Logger) *openRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterDefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &openRouterClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger,
	}
}

func (c *openRouterClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Provider: ProviderOpenRouter, Message: "rate limiter wait", Cause: err}
		}
	}

	c.logger.Info("vision.chat.start",
		"req_id", rid,
		"provider", ProviderOpenRouter,
		"model", c.cfg.Model,
		"user_len", len(req.UserText),
	)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}
	if c.cfg.Referer != "" {
		headers["HTTP-Referer"] = c.cfg.Referer
	}
	if c.cfg.AppTitle != "" {
		headers["X-Title"] = c.cfg.AppTitle
	}

	raw, status, err := sendJSON(ctx, c.http, endpoint, chatBody(c.cfg, req), headers, c.logger)
	if err != nil {
		c.logger.Error("vision.chat.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &TransportError{
			Provider: ProviderOpenRouter,
			Status:   status,
			Message:  backendErrorMessage(raw, status),
			Cause:    err,
		}
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", &MalformedResponseError{Provider: ProviderOpenRouter, Detail: "decode response: " + err.Error()}
	}

	content := ""
	if len(cc.Choices) > 0 {
		content = cc.Choices[0].Message.Content
	}
	if content == "" {
		content = cc.Content
	}
	if content == "" {
		return "", &MalformedResponseError{Provider: ProviderOpenRouter, Detail: "no assistant content in response"}
	}

	c.logger.Info("vision.chat.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(content), nil
}
