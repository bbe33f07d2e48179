// Package app wires configuration, storage and the processing stages for the commands.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/common"
	"github.com/joseph-ayodele/ocr-fields/internal/core"
	"github.com/joseph-ayodele/ocr-fields/internal/core/extract"
	"github.com/joseph-ayodele/ocr-fields/internal/core/fields"
	"github.com/joseph-ayodele/ocr-fields/internal/core/ocr"
	"github.com/joseph-ayodele/ocr-fields/internal/export"
	"github.com/joseph-ayodele/ocr-fields/internal/repository"
)

// LoadConfig reads a local .env (if any), then the environment, then the optional YAML file.
func LoadConfig(path string) (*common.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, common.NewAppError("CONFIG_ERROR", "load .env", err)
	}
	return common.LoadConfigFile(path)
}

// NewLogger returns a JSON slog logger at the named level and installs it as the default.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// ConnectDB opens the store, creates the schema and pings it.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repository.DB, error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.HealthCheck(ctx, 3*time.Second); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewOCRConfig maps the configuration section onto the extractor's Config.
func NewOCRConfig(cfg common.OCRConfig) ocr.Config {
	return ocr.Config{
		Engine:           cfg.Engine,
		Tesseract:        cfg.Tesseract,
		Pdftoppm:         cfg.Pdftoppm,
		Lang:             cfg.Lang,
		DPI:              cfg.DPI,
		OEM:              cfg.OEM,
		TessdataDir:      cfg.TessdataDir,
		ArtifactCacheDir: cfg.ArtifactCacheDir,
		Preprocess:       cfg.Preprocess,
	}
}

// NewProcessor builds the OCR and field stages; db may be nil to skip persistence.
func NewProcessor(cfg *common.Config, db *repository.DB, logger *slog.Logger, opts ...ocr.Option) (*core.Processor, error) {
	x, err := ocr.NewExtractor(NewOCRConfig(cfg.OCR), logger, opts...)
	if err != nil {
		return nil, err
	}
	var extractions repository.ExtractionRepository
	if db != nil {
		extractions = repository.NewExtractionRepository(db, logger)
	}
	return core.NewProcessor(logger, extract.NewOCRAdapter(x, logger), fields.NewExtractor(logger), extractions), nil
}

// ErrorBody is the JSON shape commands print on request-level failures.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError writes err as an ErrorBody using its gRPC status code.
func WriteError(w io.Writer, err error) error {
	st := common.StatusFromError(err)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(ErrorBody{Error: st.Message(), Code: st.Code().String()})
}

// ReadInput returns the contents of path, or of stdin when path is "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", common.InvalidArgumentErrorf("read stdin: %v", err)
		}
		return string(b), nil
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", common.NotFoundError("input not found: " + path)
	case err != nil:
		return "", common.InvalidArgumentErrorf("stat %s: %v", path, err)
	case info.IsDir():
		return "", common.InvalidArgumentErrorf("%s is a directory", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", common.InvalidArgumentErrorf("read %s: %v", path, err)
	}
	return string(b), nil
}

// ExportFilter turns a document type label into a ListFilter; empty selects every type.
func ExportFilter(docType string) (repository.ListFilter, error) {
	v := common.NewValidator().
		Field("type", docType, common.OneOf(constants.DocumentTypesAsStringSlice()...))
	if err := common.ValidateAndReturnError(v); err != nil {
		return repository.ListFilter{}, err
	}
	return repository.ListFilter{DetectedType: constants.DocumentType(docType)}, nil
}

// ExportXLSX writes the stored extractions matching filter to path as a workbook.
func ExportXLSX(ctx context.Context, db *repository.DB, logger *slog.Logger, filter repository.ListFilter, path string) error {
	b, err := export.NewService(repository.NewExtractionRepository(db, logger), logger).ExportExtractionsXLSX(ctx, filter)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return common.WrapError(err, "write "+path)
	}
	return nil
}
