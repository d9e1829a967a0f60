package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/tundeoj/snapsort/internal/async"
	"github.com/tundeoj/snapsort/internal/common"
	"github.com/tundeoj/snapsort/internal/export"
	"github.com/tundeoj/snapsort/internal/history"
	"github.com/tundeoj/snapsort/internal/ingest"
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
		dir     = flag.String("dir", "", "directory of screenshots to process (required)")
		workers = flag.Int("workers", 4, "concurrent pipeline invocations")
		out     = flag.String("out", "", "optional XLSX export path (defaults to <dir>/../snapsort.xlsx when set with -export)")
		doExp   = flag.Bool("export", false, "export the history store to XLSX after processing")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *doExp && *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "snapsort.xlsx")
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
	recognizer := ocr.NewExtractor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
	}, logger)

	store, err := history.Open(cfg.History.DBPath)
	if err != nil {
		logger.Error("open history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	paths, stats, err := ingest.DiscoverScreenshots(*dir)
	if err != nil {
		logger.Error("walk directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("discovered screenshots",
		"dir", *dir, "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	if len(paths) == 0 {
		logger.Info("nothing to do")
		return
	}

	runner := pipeline.New(backend, recognizer, logger)
	results := async.Process(ctx, *workers, paths, runner.ExtractFromImage)

	var succeeded, failed, saved int
	for _, r := range results {
		if r.Err != nil {
			logger.Error("batch.item.failed", "path", r.Job.Path, "error", r.Err)
			failed++
			continue
		}
		succeeded++

		recordJSON, err := json.Marshal(r.Result.Data)
		if err != nil {
			logger.Error("batch.item.encode_failed", "path", r.Job.Path, "error", err)
			continue
		}
		hash, err := history.HashFile(r.Job.Path)
		if err != nil {
			logger.Error("batch.item.hash_failed", "path", r.Job.Path, "error", err)
			continue
		}
		entry := &history.Entry{
			ImagePath:   r.Job.Path,
			ContentHash: hash,
			Type:        r.Result.Type,
			Confidence:  r.Result.Confidence,
			RecordJSON:  string(recordJSON),
		}
		if err := store.Save(ctx, entry); err != nil {
			logger.Error("batch.item.save_failed", "path", r.Job.Path, "error", err)
			continue
		}
		saved++
	}
	logger.Info("batch.done", "succeeded", succeeded, "failed", failed, "saved", saved)

	if *doExp {
		svc := export.NewService(store, logger)
		data, err := svc.ExportXLSX(ctx, "")
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("write export", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("exported", "path", *out)
	}
}
