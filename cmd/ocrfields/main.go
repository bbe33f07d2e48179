package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/ocr-fields/internal/app"
	"github.com/joseph-ayodele/ocr-fields/internal/core"
	"github.com/joseph-ayodele/ocr-fields/internal/entity"
	"github.com/joseph-ayodele/ocr-fields/internal/repository"
)

type options struct {
	input      string
	mode       string
	lang       string
	asText     bool
	dsn        string
	configPath string
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: ocrfields [flags] <file|->\n")
	flag.PrintDefaults()
}

func main() {
	var (
		opts     options
		logLevel string
	)
	flag.StringVar(&opts.mode, "mode", "auto", "OCR mode: auto, receipt, invoice, handwritten")
	flag.StringVar(&opts.lang, "lang", "", "tesseract language (default from config)")
	flag.BoolVar(&opts.asText, "text", false, "treat the input file as plain text and skip OCR")
	flag.StringVar(&opts.dsn, "db", "", "persist the report to this database DSN")
	flag.StringVar(&opts.configPath, "config", "", "optional YAML config file")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	opts.input = flag.Arg(0)

	// stdout carries the report only
	logger := app.NewLogger(os.Stderr, logLevel)

	report, err := run(context.Background(), logger, opts)
	if err != nil {
		logger.Error("extraction failed", "input", opts.input, "error", err)
		_ = app.WriteError(os.Stdout, err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, opts options) (*entity.Extraction, error) {
	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.lang == "" {
		opts.lang = cfg.OCR.Lang
	}
	if opts.dsn != "" {
		cfg.Database.DSN = opts.dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var db *repository.DB
	if opts.dsn != "" {
		if db, err = app.ConnectDB(ctx, cfg.Database, logger); err != nil {
			return nil, err
		}
		defer db.Close()
	}

	processor, err := app.NewProcessor(cfg, db, logger)
	if err != nil {
		return nil, err
	}

	if opts.input == "-" || opts.asText {
		text, err := app.ReadInput(opts.input, os.Stdin)
		if err != nil {
			return nil, err
		}
		return processor.ProcessText(ctx, opts.input, text)
	}
	return processor.ProcessFile(ctx, core.Request{Path: opts.input, Mode: opts.mode, Lang: opts.lang})
}
