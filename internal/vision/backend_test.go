package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatConfig(provider Provider, baseURL string) Config {
	return Config{
		Provider: provider,
		APIKey:   "test-key",
		Model:    "test-model",
		BaseURL:  baseURL,
	}
}

func testRequest() ChatRequest {
	return ChatRequest{
		System:       "sys",
		UserText:     "user",
		ImageDataURL: "data:image/png;base64,AAAA",
	}
}

func TestOpenAI_Chat(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"ok":true}`}},
			},
		})
	}))
	defer srv.Close()

	c := newOpenAI(chatConfig(ProviderOpenAI, srv.URL), nil, nil)
	out, err := c.Chat(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("content: got %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header: got %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Fatalf("model: got %v", gotBody["model"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", gotBody["messages"])
	}
}

func TestOpenAI_SurfacesBackendErrorText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"image too large"}}`))
	}))
	defer srv.Close()

	c := newOpenAI(chatConfig(ProviderOpenAI, srv.URL), nil, nil)
	_, err := c.Chat(context.Background(), testRequest())

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if te.Message != "image too large" {
		t.Fatalf("expected backend error text, got %q", te.Message)
	}
	if te.Status != http.StatusBadRequest {
		t.Fatalf("status: got %d", te.Status)
	}
}

func TestOpenAI_GenericStatusMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := newOpenAI(chatConfig(ProviderOpenAI, srv.URL), nil, nil)
	_, err := c.Chat(context.Background(), testRequest())

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T", err)
	}
	if te.Message != "HTTP status 502" {
		t.Fatalf("expected generic status line, got %q", te.Message)
	}
}

func TestOpenAI_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer srv.Close()

	c := newOpenAI(chatConfig(ProviderOpenAI, srv.URL), nil, nil)
	_, err := c.Chat(context.Background(), testRequest())

	var me *MalformedResponseError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedResponseError, got %T: %v", err, err)
	}
}

func TestOpenRouter_AttributionHeaders(t *testing.T) {
	var gotReferer, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hi"}},
			},
		})
	}))
	defer srv.Close()

	cfg := chatConfig(ProviderOpenRouter, srv.URL)
	cfg.Referer = "https://example.com"
	cfg.AppTitle = "snapsort"
	c := newOpenRouter(cfg, nil, nil)
	if _, err := c.Chat(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReferer != "https://example.com" || gotTitle != "snapsort" {
		t.Fatalf("attribution headers not sent: %q %q", gotReferer, gotTitle)
	}
}

func TestOpenRouter_FlattenedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":"flattened text"}`))
	}))
	defer srv.Close()

	c := newOpenRouter(chatConfig(ProviderOpenRouter, srv.URL), nil, nil)
	out, err := c.Chat(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "flattened text" {
		t.Fatalf("got %q", out)
	}
}

func TestNewBackend_Validation(t *testing.T) {
	if _, err := NewBackend(Config{Provider: ProviderOpenAI}, nil, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewBackend(Config{Provider: "bogus", APIKey: "k"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if _, err := NewBackend(Config{APIKey: "k"}, nil, nil); err == nil {
		t.Fatal("expected error for empty provider")
	}
	if b, err := NewBackend(Config{Provider: ProviderOpenRouter, APIKey: "k"}, nil, nil); err != nil || b == nil {
		t.Fatalf("expected backend, got %v", err)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateAgainstSchema(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"title"},
	}
	if err := ValidateAgainstSchema(schema, []byte(`{"title":"x"}`)); err != nil {
		t.Fatalf("valid doc rejected: %v", err)
	}
	if err := ValidateAgainstSchema(schema, []byte(`{}`)); err == nil {
		t.Fatal("missing required field accepted")
	}
	if err := ValidateAgainstSchema(schema, []byte(`not json`)); err == nil {
		t.Fatal("invalid json accepted")
	}
}
