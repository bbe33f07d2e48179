package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/core/fields"
)

// Extraction is the report produced for one document, for data transfer between layers.
type Extraction struct {
	ID         uuid.UUID      `json:"id"`
	SourcePath string         `json:"source"`
	SourceType string         `json:"source_type"`
	Method     string         `json:"method,omitempty"`
	Text       string         `json:"text"`
	Fields     fields.Result  `json:"fields"`
	Confidence float64        `json:"confidence"`
	WordCount  int            `json:"word_count"`
	CharCount  int            `json:"char_count"`
	Mode       constants.Mode `json:"mode"`
	Lang       string         `json:"lang"`
	Warnings   []string       `json:"warnings,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// DocumentType is the detected document label of the extraction.
func (e *Extraction) DocumentType() constants.DocumentType {
	return e.Fields.DocumentType()
}
