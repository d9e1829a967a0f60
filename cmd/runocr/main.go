package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tundeoj/snapsort/internal/common"
	"github.com/tundeoj/snapsort/internal/ocr"
)

// runocr prints the OCR text for one screenshot; a debugging aid for tuning
// classification prompts and the host inference heuristics.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <image-path>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
	}, logger)

	res, err := extractor.Extract(ctx, path)
	if err != nil {
		logger.Error("ocr failed", "path", path, "error", err)
		os.Exit(1)
	}

	logger.Info("ocr ok", "path", path, "text_len", len(res.Text),
		"duration_ms", res.Duration.Milliseconds())
	fmt.Println(res.Text)
}
