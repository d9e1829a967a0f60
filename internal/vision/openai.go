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

const openAIDefaultBaseURL = "https://api.openai.com/v1"

// openAIClient implements Backend against the OpenAI chat/completions API.
type openAIClient struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newOpenAI(cfg Config, limiter *rate.Limiter, logger *slog.Logger) *openAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openAIDefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &openAIClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger,
	}
}

func (c *openAIClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Provider: ProviderOpenAI, Message: "rate limiter wait", Cause: err}
		}
	}

	c.logger.Info("vision.chat.start",
		"req_id", rid,
		"provider", ProviderOpenAI,
		"model", c.cfg.Model,
		"user_len", len(req.UserText),
	)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := sendJSON(ctx, c.http, endpoint, chatBody(c.cfg, req), headers, c.logger)
	if err != nil {
		c.logger.Error("vision.chat.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &TransportError{
			Provider: ProviderOpenAI,
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
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", &MalformedResponseError{Provider: ProviderOpenAI, Detail: "decode response: " + err.Error()}
	}
	if len(cc.Choices) == 0 || cc.Choices[0].Message.Content == "" {
		return "", &MalformedResponseError{Provider: ProviderOpenAI, Detail: "no choices in response"}
	}

	c.logger.Info("vision.chat.ok",
		"req_id", rid,
		"content_len", len(cc.Choices[0].Message.Content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}
