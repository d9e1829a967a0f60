// Package extract turns a classified screenshot into its typed record with
// one vision call. Every extractor is the same template instantiated with a
// per-type descriptor: a narrow-expertise system prompt, a field contract, a
// literal JSON example, a JSON-Schema for strict validation, and a typed
// decode. Extractors are stateless; concurrent calls need no coordination.
package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tundeoj/snapsort/constants"
	"github.com/tundeoj/snapsort/internal/normalize"
	"github.com/tundeoj/snapsort/internal/record"
	"github.com/tundeoj/snapsort/internal/vision"
)

// ocrContextLimit caps how much OCR text is inlined into the user prompt.
const ocrContextLimit = 1500

type typeSpec struct {
	typ       constants.ScreenshotType
	expertise string
	fields    []fieldSpec
	example   string
	schema    func() map[string]any
	decode    func(data []byte) (record.Record, error)
}

var registry = map[constants.ScreenshotType]*typeSpec{
	constants.TypeEvent: {
		typ:       constants.TypeEvent,
		expertise: "You are an expert at extracting event details from screenshots of flyers, invites, posts, and calendar entries. " + hostBias,
		fields:    eventFields,
		example:   eventExample,
		schema:    eventSchema,
		decode:    decodeInto[record.EventData],
	},
	constants.TypeSong: {
		typ:       constants.TypeSong,
		expertise: "You are an expert at extracting song details from screenshots of music players, story posts, and streaming apps.",
		fields:    songFields,
		example:   songExample,
		schema:    songSchema,
		decode:    decodeInto[record.SongData],
	},
	constants.TypeVideo: {
		typ:       constants.TypeVideo,
		expertise: "You are an expert at extracting video details from screenshots of video players and shared video links.",
		fields:    videoFields,
		example:   videoExample,
		schema:    videoSchema,
		decode:    decodeInto[record.VideoData],
	},
	constants.TypeRestaurant: {
		typ:       constants.TypeRestaurant,
		expertise: "You are an expert at extracting restaurant details from screenshots of menus, map pins, storefronts, and review pages.",
		fields:    restaurantFields,
		example:   restaurantExample,
		schema:    restaurantSchema,
		decode:    decodeInto[record.RestaurantData],
	},
	constants.TypeLink: {
		typ:       constants.TypeLink,
		expertise: "You are an expert at extracting webpage and article details from screenshots of browsers and link previews.",
		fields:    linkFields,
		example:   linkExample,
		schema:    linkSchema,
		decode:    decodeInto[record.LinkData],
	},
	constants.TypeSocialPost: {
		typ:       constants.TypeSocialPost,
		expertise: "You are an expert at extracting social media post details from screenshots of feeds and timelines.",
		fields:    socialPostFields,
		example:   socialPostExample,
		schema:    socialPostSchema,
		decode:    decodeInto[record.SocialPostData],
	},
	constants.TypeNote: {
		typ:       constants.TypeNote,
		expertise: "You are an expert at capturing free-form text content from screenshots that fit no other category.",
		fields:    noteFields,
		example:   noteExample,
		schema:    noteSchema,
		decode:    decodeInto[record.NoteData],
	},
}

// Extract runs the extractor for typ against the screenshot. An unknown typ
// falls back to the link extractor (defensive; the classifier already
// coerces unknown tags). now feeds event date normalization. The returned
// record is immutable from the pipeline's point of view.
func Extract(ctx context.Context, backend vision.Backend, typ constants.ScreenshotType, imageDataURL, ocrText string, now time.Time, logger *slog.Logger) (record.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sp, ok := registry[typ]
	if !ok {
		logger.Warn("extract.unknown_type_fallback", "type", typ)
		sp = registry[constants.TypeLink]
	}

	rid := uuid.New().String()
	start := time.Now()
	logger.Info("extract.start", "req_id", rid, "type", sp.typ, "ocr_len", len(ocrText))

	raw, err := backend.Chat(ctx, vision.ChatRequest{
		System:       sp.systemPrompt(),
		UserText:     sp.userPrompt(ocrText),
		ImageDataURL: imageDataURL,
	})
	if err != nil {
		logger.Error("extract.chat_error", "req_id", rid, "type", sp.typ, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	content := []byte(vision.StripFences(raw))

	cleaned, droppedKeys, err := sanitizeFields(content, sp.allowedFields())
	if err != nil {
		logger.Error("extract.sanitize_failed", "req_id", rid, "type", sp.typ, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, &ParseError{Type: string(sp.typ), Detail: err.Error(), Raw: raw}
	}
	if len(droppedKeys) > 0 {
		logger.Warn("extract.sanitize_dropped", "req_id", rid, "type", sp.typ, "dropped", droppedKeys)
	}

	if err := vision.ValidateAgainstSchema(sp.schema(), cleaned); err != nil {
		logger.Error("extract.schema_validation_failed", "req_id", rid, "type", sp.typ,
			"error", err, "content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, &ParseError{Type: string(sp.typ), Detail: err.Error(), Raw: raw}
	}

	rec, err := sp.decode(cleaned)
	if err != nil {
		return nil, &ParseError{Type: string(sp.typ), Detail: "decode: " + err.Error(), Raw: raw}
	}

	// Events additionally get deterministic date normalization.
	if ev, isEvent := rec.(record.EventData); isEvent {
		normalize.EventDates(&ev, now)
		rec = ev
	}

	logger.Info("extract.ok", "req_id", rid, "type", sp.typ,
		"elapsed_ms", time.Since(start).Milliseconds())
	return rec, nil
}

func (sp *typeSpec) systemPrompt() string {
	return sp.expertise + " Respond with raw JSON only: no Markdown, no code fences, no commentary."
}

func (sp *typeSpec) userPrompt(ocrText string) string {
	var b strings.Builder

	if ocr := strings.TrimSpace(ocrText); ocr != "" {
		ocr = capBytes(ocr, ocrContextLimit)
		b.WriteString("OCR text from the screenshot (may contain recognition noise):\n")
		b.WriteString(ocr)
		b.WriteString("\n\n")
	}

	b.WriteString("Extract the following fields from the screenshot:\n")
	for _, f := range sp.fields {
		b.WriteString("- ")
		b.WriteString(f.name)
		if f.required {
			b.WriteString(" (required): ")
		} else {
			b.WriteString(" (optional): ")
		}
		b.WriteString(f.desc)
		b.WriteString("\n")
	}
	b.WriteString("\nOmit optional fields you cannot determine; never invent values. ")
	b.WriteString("Return exactly this JSON shape:\n")
	b.WriteString(sp.example)
	return b.String()
}

func (sp *typeSpec) allowedFields() map[string]bool {
	allowed := make(map[string]bool, len(sp.fields))
	for _, f := range sp.fields {
		allowed[f.name] = f.required
	}
	return allowed
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

// decodeInto decodes validated JSON into the concrete record variant.
func decodeInto[T record.Record](data []byte) (record.Record, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
