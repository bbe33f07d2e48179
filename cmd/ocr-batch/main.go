package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joseph-ayodele/ocr-fields/internal/app"
	"github.com/joseph-ayodele/ocr-fields/internal/core/async"
	"github.com/joseph-ayodele/ocr-fields/internal/entity"
	"github.com/joseph-ayodele/ocr-fields/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory to process documents from (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		configPath = flag.String("config", "", "optional YAML config file")
		dsn        = flag.String("db", "", "database DSN (overrides DB_URL)")
		inmem      = flag.Bool("inmem", false, "use in-memory SQLite database")
		mode       = flag.String("mode", "auto", "OCR mode: auto, receipt, invoice, handwritten")
		lang       = flag.String("lang", "", "tesseract language (default from config)")
		workers    = flag.Int("workers", 0, "worker count (default from config)")
		docType    = flag.String("type", "", "only export this detected document type")
		watch      = flag.Bool("watch", false, "keep watching the directory until interrupted")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "extractions.xlsx")
	}

	logger := app.NewLogger(os.Stdout, "info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	switch {
	case *inmem:
		cfg.Database.DSN = ":memory:"
	case *dsn != "":
		cfg.Database.DSN = *dsn
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *lang == "" {
		*lang = cfg.OCR.Lang
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	filter, err := app.ExportFilter(*docType)
	if err != nil {
		logger.Error("invalid --type", "error", err)
		os.Exit(1)
	}

	db, err := app.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	processor, err := app.NewProcessor(cfg, db, logger)
	if err != nil {
		logger.Error("failed to build processor", "error", err)
		os.Exit(1)
	}

	var processed, failures atomic.Int64
	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Batch.ProcessTimeout),
		async.WithResultHandler(func(job async.Job, report *entity.Extraction, err error) {
			if err != nil {
				failures.Add(1)
				return
			}
			processed.Add(1)
			logger.Info("document processed",
				"path", job.Path,
				"detected_type", report.DocumentType(),
				"fields", len(report.Fields)-1)
		}),
	)

	enqueue := func(path string) bool {
		if err := queue.Enqueue(ctx, async.Job{Path: path, Mode: *mode, Lang: *lang}); err != nil {
			logger.Warn("enqueue failed", "path", path, "error", err)
			return false
		}
		return true
	}

	logger.Info("starting scan", "dir", *dir)
	paths, stats, err := ingest.ScanDirectory(ctx, *dir, true, logger)
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete", "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)

	submitted := 0
	for _, p := range paths {
		if enqueue(p) {
			submitted++
		}
	}

	if *watch {
		submitted += watchDir(ctx, *dir, logger, enqueue)
	}

	// a second interrupt kills the process while queued jobs drain
	stop()
	queue.Shutdown(context.Background())

	logger.Info("exporting to XLSX", "output", *out)
	if err := app.ExportXLSX(context.Background(), db, logger, filter, *out); err != nil {
		logger.Error("failed to export extractions", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files_submitted", submitted,
		"files_processed", processed.Load(),
		"failures", failures.Load(),
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files submitted: %d\n", submitted)
	fmt.Printf("- Files processed: %d\n", processed.Load())
	fmt.Printf("- Failures: %d\n", failures.Load())
	fmt.Printf("- Output: %s\n", *out)
}

// watchDir enqueues new or changed files until ctx is cancelled and returns how many were submitted.
func watchDir(ctx context.Context, dir string, logger *slog.Logger, enqueue func(string) bool) int {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    []string{dir},
		Debounce: 500 * time.Millisecond,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		return 0
	}
	logger.Info("watching for new documents", "dir", dir)

	n := 0
	for events != nil || errs != nil {
		select {
		case p, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if enqueue(p) {
				n++
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher error", "error", err)
		}
	}
	return n
}
