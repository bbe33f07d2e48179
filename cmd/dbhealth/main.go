package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joseph-ayodele/ocr-fields/internal/app"
	"github.com/joseph-ayodele/ocr-fields/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		dsn        = flag.String("db", "", "database DSN (overrides DB_URL)")
		latest     = flag.Int("latest", 5, "number of recent extractions to list")
	)
	flag.Parse()

	logger := app.NewLogger(os.Stdout, "info")

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := app.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	extractions := repository.NewExtractionRepository(db, logger)
	n, err := extractions.Count(ctx)
	if err != nil {
		logger.Error("count failed", "error", err)
		os.Exit(1)
	}
	logger.Info("db ok", "dialect", db.Dialect(), "extractions", n)

	rows, err := extractions.List(ctx, repository.ListFilter{Limit: *latest})
	if err != nil {
		logger.Error("list failed", "error", err)
		os.Exit(1)
	}
	for _, r := range rows {
		logger.Info("extraction",
			"id", r.ID,
			"source", r.SourcePath,
			"detected_type", r.DocumentType(),
			"confidence", r.Confidence,
			"created_at", r.CreatedAt)
	}
}
