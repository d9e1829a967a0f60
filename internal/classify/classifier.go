// Package classify assigns one of the closed screenshot types to an image
// with a single vision call. It is stateless and never retries; a malformed
// classification response surfaces as *Error, while an unknown type tag is a
// designed fallback to "link", never an error.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tundeoj/snapsort/constants"
	"github.com/tundeoj/snapsort/internal/vision"
)

// Result is the advisory classification outcome. No component branches on
// Confidence beyond clamping; it is carried through for display and storage.
type Result struct {
	Type       constants.ScreenshotType `json:"type"`
	Confidence float32                  `json:"confidence"`
}

const (
	defaultConfidence  = 0.8
	fallbackConfidence = 0.5
	ocrContextLimit    = 1000
)

// Error is a malformed classification response (the model's text did not
// parse as the expected {type, confidence} JSON). Raw carries the model text
// for diagnostics.
type Error struct {
	Detail string
	Raw    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("classification failed: %s", e.Detail)
}

const systemPrompt = "You are a screenshot classifier. You assign exactly one category " +
	"to a screenshot. Respond with raw JSON only, no Markdown, no code fences, no commentary."

// classificationSchema is the strict output contract for the model.
var classificationSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"type":       map[string]any{"type": "string"},
		"confidence": map[string]any{"type": "number"},
	},
	"required": []string{"type"},
}

// Classify performs exactly one model call and returns the screenshot type
// with an advisory confidence. An unrecognized type tag degrades to
// {link, 0.5}; confidence is clamped to [0,1] and defaults to 0.8 when the
// model omits it.
func Classify(ctx context.Context, backend vision.Backend, imageDataURL, ocrText string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rid := uuid.New().String()
	start := time.Now()

	logger.Info("classify.start", "req_id", rid, "ocr_len", len(ocrText))

	raw, err := backend.Chat(ctx, vision.ChatRequest{
		System:       systemPrompt,
		UserText:     buildUserPrompt(ocrText),
		ImageDataURL: imageDataURL,
	})
	if err != nil {
		logger.Error("classify.chat_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}

	content := vision.StripFences(raw)
	if err := vision.ValidateAgainstSchema(classificationSchema, []byte(content)); err != nil {
		logger.Error("classify.schema_validation_failed", "req_id", rid, "error", err, "content", content,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, &Error{Detail: err.Error(), Raw: raw}
	}

	var parsed struct {
		Type       string   `json:"type"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Result{}, &Error{Detail: "decode: " + err.Error(), Raw: raw}
	}

	out := Result{Confidence: defaultConfidence}
	if parsed.Confidence != nil {
		out.Confidence = clamp01(float32(*parsed.Confidence))
	}

	tag, known := constants.ParseScreenshotType(parsed.Type)
	out.Type = tag
	if !known {
		// Unknown tags degrade to link rather than failing the pipeline.
		out.Type = constants.TypeLink
		out.Confidence = fallbackConfidence
		logger.Warn("classify.unknown_type", "req_id", rid, "raw_type", parsed.Type)
	}

	logger.Info("classify.ok",
		"req_id", rid,
		"type", out.Type,
		"confidence", out.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func buildUserPrompt(ocrText string) string {
	var b strings.Builder
	b.WriteString("Classify this screenshot as exactly one of: ")
	b.WriteString(strings.Join(constants.AllTypes(), ", "))
	b.WriteString(".\n\nDisambiguation rules:\n")
	b.WriteString("- A social post showing a calendar icon, a date, or a start time is an 'event', not a 'social_post'.\n")
	b.WriteString("- A post about a song with a 'Use Audio', 'Add to Spotify', or similar affordance is a 'song'.\n")
	b.WriteString("- A video player UI (progress bar, channel name, view count) is a 'video'.\n")
	b.WriteString("- A menu, storefront, map pin, or review page for a place to eat is a 'restaurant'.\n")
	b.WriteString("- A shared article, webpage preview, or URL card is a 'link'.\n")
	b.WriteString("- Plain text content that fits no other category is a 'note'.\n")

	if ocr := strings.TrimSpace(ocrText); ocr != "" {
		ocr = capBytes(ocr, ocrContextLimit)
		b.WriteString("\nOCR text from the screenshot:\n")
		b.WriteString(ocr)
		b.WriteString("\n")
	}

	b.WriteString("\nReturn exactly this JSON shape:\n")
	b.WriteString(`{"type": "event", "confidence": 0.95}`)
	return b.String()
}

// capBytes truncates s to at most max bytes without splitting a rune.
func capBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
