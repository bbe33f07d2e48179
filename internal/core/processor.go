package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/common"
	"github.com/joseph-ayodele/ocr-fields/internal/core/extract"
	"github.com/joseph-ayodele/ocr-fields/internal/core/fields"
	"github.com/joseph-ayodele/ocr-fields/internal/entity"
	"github.com/joseph-ayodele/ocr-fields/internal/repository"
)

const defaultLang = "eng"

// Request names one document to process.
type Request struct {
	Path string
	Mode string
	Lang string
}

// Processor coordinates OCR (text extract) then rule-based field extraction,
// and stores the report when a repository is configured.
type Processor struct {
	logger         *slog.Logger
	textExtractor  extract.TextExtractor
	fieldExtractor extract.FieldExtractor
	extractions    repository.ExtractionRepository
}

// NewProcessor wires the stages; extractions may be nil to skip persistence.
func NewProcessor(
	logger *slog.Logger,
	textExtractor extract.TextExtractor,
	fieldExtractor extract.FieldExtractor,
	extractions repository.ExtractionRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fieldExtractor == nil {
		fieldExtractor = fields.NewExtractor(logger)
	}
	return &Processor{
		logger:         logger,
		textExtractor:  textExtractor,
		fieldExtractor: fieldExtractor,
		extractions:    extractions,
	}
}

// ProcessFile runs OCR on req.Path, extracts fields from the recognised text
// and returns the report.
func (p *Processor) ProcessFile(ctx context.Context, req Request) (*entity.Extraction, error) {
	log := common.LoggerFromContext(ctx, p.logger)
	v := common.NewValidator().
		Field("path", req.Path, common.Required).
		Field("lang", req.Lang, common.MaxLength(64))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	if p.textExtractor == nil {
		return nil, common.InternalErrorf("no text extractor configured for %s", req.Path)
	}
	mode := p.parseMode(log, req.Mode)
	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = defaultLang
	}

	res, err := p.textExtractor.Extract(ctx, req.Path, mode, lang)
	if err != nil {
		log.Error("processor.ocr.failed", "path", req.Path, "mode", mode, "error", err)
		return nil, err
	}
	log.Debug("processor.ocr.ok",
		"path", req.Path,
		"method", res.Method,
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)

	report, err := p.buildReport(ctx, log, req.Path, res.Text)
	if err != nil {
		return nil, err
	}
	report.SourceType = res.SourceType
	report.Method = res.Method
	report.Confidence = res.Confidence
	report.WordCount = res.WordCount
	report.Warnings = res.Warnings
	report.Mode = mode
	report.Lang = lang
	if err := p.persist(ctx, log, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ProcessText extracts fields from text that was recognised elsewhere.
func (p *Processor) ProcessText(ctx context.Context, source, text string) (*entity.Extraction, error) {
	log := common.LoggerFromContext(ctx, p.logger)
	if source == "" {
		source = "-"
	}
	report, err := p.buildReport(ctx, log, source, text)
	if err != nil {
		return nil, err
	}
	report.SourceType = constants.TXT
	report.Method = "text"
	report.WordCount = len(strings.Fields(text))
	report.Mode = constants.ModeAuto
	report.Lang = defaultLang
	if err := p.persist(ctx, log, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *Processor) parseMode(log *slog.Logger, raw string) constants.Mode {
	mode, ok := constants.ParseMode(raw)
	if !ok && strings.TrimSpace(raw) != "" {
		log.Warn("unknown mode; using auto", "mode", raw)
	}
	return mode
}

// buildReport runs the field extractors over the raw text; the stored text is trimmed.
func (p *Processor) buildReport(ctx context.Context, log *slog.Logger, source, text string) (*entity.Extraction, error) {
	start := time.Now()
	result, err := p.fieldExtractor.ExtractFields(ctx, text)
	if err != nil {
		return nil, common.WrapError(err, "extract fields")
	}
	if err := fields.Validate(result); err != nil {
		return nil, common.NewAppError("SCHEMA_ERROR", "extracted fields rejected", fmt.Errorf("%w: %w", common.ErrValidation, err))
	}
	trimmed := strings.TrimSpace(text)
	log.Debug("processor.fields.ok",
		"source", source,
		"fields", len(result),
		"detected_type", result.DocumentType(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &entity.Extraction{
		ID:         uuid.New(),
		SourcePath: source,
		Text:       trimmed,
		Fields:     result,
		CharCount:  utf8.RuneCountInString(trimmed),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (p *Processor) persist(ctx context.Context, log *slog.Logger, report *entity.Extraction) error {
	if p.extractions == nil {
		return nil
	}
	if err := p.extractions.Save(ctx, report); err != nil {
		log.Error("processor.persist.failed", "id", report.ID, "error", err)
		return common.WrapError(err, "save extraction")
	}
	log.Info("processed document",
		"id", report.ID,
		"source", report.SourcePath,
		"detected_type", report.DocumentType(),
		"fields", len(report.Fields),
		"confidence", report.Confidence,
	)
	return nil
}
