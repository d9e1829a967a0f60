package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tundeoj/snapsort/internal/common"
	"github.com/tundeoj/snapsort/internal/history"
	"github.com/tundeoj/snapsort/internal/ocr"
	"github.com/tundeoj/snapsort/internal/pipeline"
	"github.com/tundeoj/snapsort/internal/vision"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		image  = flag.String("image", "", "screenshot file to process (required)")
		save   = flag.Bool("save", false, "save the result to the local history store")
		force  = flag.Bool("force", false, "process even if this screenshot was seen before")
		noOCR  = flag.Bool("no-ocr", false, "skip the OCR pass")
		pretty = flag.Bool("pretty", false, "indent the JSON output")
	)
	flag.Parse()

	if *image == "" {
		printError("Error: --image is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend, err := vision.NewBackend(cfg.Vision.BackendConfig(), cfg.Vision.RateLimiter(), logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	var recognizer pipeline.TextRecognizer
	if !*noOCR {
		recognizer = ocr.NewExtractor(ocr.Config{
			Tesseract:   cfg.OCR.Tesseract,
			Lang:        cfg.OCR.Lang,
			TessdataDir: cfg.OCR.TessdataDir,
			PSM:         cfg.OCR.PSM,
		}, logger)
	}

	var store *history.Store
	var hash string
	if *save {
		store, err = history.Open(cfg.History.DBPath)
		if err != nil {
			logger.Error("open history store", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		hash, err = history.HashFile(*image)
		if err != nil {
			logger.Error("hash screenshot", "path", *image, "error", err)
			os.Exit(1)
		}
		if !*force {
			if prev, err := store.FindByHash(ctx, hash); err == nil && prev != nil {
				logger.Info("screenshot already processed", "id", prev.ID, "type", prev.Type)
				fmt.Println(prev.RecordJSON)
				return
			}
		}
	}

	runner := pipeline.New(backend, recognizer, logger)
	result, err := runner.ExtractFromImage(ctx, *image)
	if err != nil {
		logger.Error("extraction failed", "path", *image, "error", err)
		os.Exit(1)
	}

	out, err := marshalResult(result, *pretty)
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if *save {
		recordJSON, err := json.Marshal(result.Data)
		if err != nil {
			logger.Error("encode record for storage", "error", err)
			os.Exit(1)
		}
		entry := &history.Entry{
			ImagePath:   *image,
			ContentHash: hash,
			Type:        result.Type,
			Confidence:  result.Confidence,
			RecordJSON:  string(recordJSON),
		}
		if err := store.Save(ctx, entry); err != nil {
			logger.Error("save result", "error", err)
			os.Exit(1)
		}
		logger.Info("saved", "id", entry.ID, "type", entry.Type)
	}
}

func marshalResult(result pipeline.Result, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}
