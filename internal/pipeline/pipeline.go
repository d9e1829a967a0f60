// Package pipeline orchestrates the screenshot-to-record flow:
// OCR → classify → type-specific extraction → event host backfill.
// The flow is a strict linear sequence with no parallel branches; batch
// callers run independent Runner invocations concurrently, which is safe
// because nothing here holds shared mutable state.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tundeoj/snapsort/constants"
	"github.com/tundeoj/snapsort/internal/classify"
	"github.com/tundeoj/snapsort/internal/extract"
	"github.com/tundeoj/snapsort/internal/hostinfer"
	"github.com/tundeoj/snapsort/internal/record"
	"github.com/tundeoj/snapsort/internal/vision"
)

// TextRecognizer is the OCR collaborator. Failures are recovered locally by
// the pipeline (substituted with empty text), never propagated.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Result is the immutable outcome of one pipeline invocation. Confidence is
// the classifier's advisory value, carried through unchanged.
type Result struct {
	Type       constants.ScreenshotType `json:"type"`
	Data       record.Record            `json:"data"`
	Confidence float32                  `json:"confidence"`
}

// Runner executes the extraction pipeline. It is safe for concurrent use.
type Runner struct {
	backend vision.Backend
	ocr     TextRecognizer // nil disables OCR entirely
	logger  *slog.Logger
	now     func() time.Time
}

func New(backend vision.Backend, ocr TextRecognizer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{backend: backend, ocr: ocr, logger: logger, now: time.Now}
}

// ExtractFromImage runs the full pipeline over one screenshot file. OCR
// failure is non-fatal; every later failure surfaces to the caller as a
// typed error with no automatic retry and no fabricated default record.
// Cancellation is checked between steps, before each network call.
func (r *Runner) ExtractFromImage(ctx context.Context, path string) (Result, error) {
	rid := uuid.New().String()
	start := time.Now()
	r.logger.Info("pipeline.start", "req_id", rid, "path", path)

	dataURL, _, err := vision.ReadAsDataURL(path)
	if err != nil {
		return Result{}, err
	}

	// 1) OCR. A failure here means we proceed without text.
	ocrText := r.recognize(ctx, rid, path)

	// 2) Classify. Fatal on failure; no default record is fabricated.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	cls, err := classify.Classify(ctx, r.backend, dataURL, ocrText, r.logger)
	if err != nil {
		r.logger.Error("pipeline.classify.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}

	// 3) Dispatch to the matching extractor. extract.Extract itself falls
	// back to the link extractor for a tag outside the known set.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	rec, err := extract.Extract(ctx, r.backend, cls.Type, dataURL, ocrText, r.now(), r.logger)
	if err != nil {
		r.logger.Error("pipeline.extract.failed", "req_id", rid, "type", cls.Type, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}

	// 4) Event host backfill from OCR text when the model came back empty.
	if ev, isEvent := rec.(record.EventData); isEvent && ev.Host == "" {
		ev, err = r.backfillHost(ctx, rid, path, ocrText, ev)
		if err != nil {
			r.logger.Error("pipeline.host_backfill.ocr_failed", "req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds())
			return Result{}, err
		}
		rec = ev
	}

	res := Result{Type: rec.Type(), Data: rec, Confidence: cls.Confidence}
	r.logger.Info("pipeline.ok",
		"req_id", rid,
		"type", res.Type,
		"confidence", res.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// recognize runs OCR, mapping every failure to empty text.
func (r *Runner) recognize(ctx context.Context, rid, path string) string {
	if r.ocr == nil {
		return ""
	}
	if err := ctx.Err(); err != nil {
		return ""
	}
	text, err := r.ocr.Recognize(ctx, path)
	if err != nil {
		r.logger.Warn("pipeline.ocr.failed", "req_id", rid, "error", err)
		return ""
	}
	r.logger.Debug("pipeline.ocr.ok", "req_id", rid, "text_len", len(text))
	return text
}

// backfillHost fills an event's empty host from OCR text heuristics. When
// the first OCR pass produced nothing, OCR is re-run once just for this
// fallback; host is otherwise silently lost, which makes the extra I/O call
// worth it. Unlike the first pass, a failure of this re-attempt is surfaced
// to the caller: host is the only reason the call runs, so there is nothing
// to degrade to. Finding no candidate is a designed soft outcome.
func (r *Runner) backfillHost(ctx context.Context, rid, path, ocrText string, ev record.EventData) (record.EventData, error) {
	if ocrText == "" {
		if r.ocr == nil {
			return ev, nil
		}
		text, err := r.ocr.Recognize(ctx, path)
		if err != nil {
			return ev, err
		}
		ocrText = text
	}
	if ocrText == "" {
		return ev, nil
	}
	if host := hostinfer.Infer(ocrText); host != "" {
		r.logger.Info("pipeline.host_backfill.ok", "req_id", rid, "host", host)
		ev.Host = host
	} else {
		r.logger.Debug("pipeline.host_backfill.no_candidate", "req_id", rid)
	}
	return ev, nil
}
