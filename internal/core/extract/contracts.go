package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/core/fields"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string, mode constants.Mode, lang string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // "PDF" | "IMAGE" | "TXT"
	Method     string // "pdf-ocr" | "image-ocr" | "text"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float64
	WordCount  int
}

// FieldExtractor is Stage 2: text -> sparse field map.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (fields.Result, error)
}
