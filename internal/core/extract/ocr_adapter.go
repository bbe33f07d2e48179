package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/core/ocr"
)

// OCRAdapter exposes an ocr.Extractor as a TextExtractor.
type OCRAdapter struct {
	extractor *ocr.Extractor
	logger    *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, l *slog.Logger) *OCRAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &OCRAdapter{
		extractor: e,
		logger:    l,
	}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string, mode constants.Mode, lang string) (TextExtractionResult, error) {
	r, err := a.extractor.Extract(ctx, path, ocr.Options{Mode: mode, Lang: lang})
	if err != nil {
		a.logger.Debug("ocr adapter failed", "path", path, "error", err)
		return TextExtractionResult{}, err
	}
	return TextExtractionResult{
		Text:       r.Text,
		Pages:      r.Pages,
		SourceType: r.SourceType,
		Method:     r.Method,
		Language:   r.Language,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
		WordCount:  r.WordCount,
	}, nil
}
