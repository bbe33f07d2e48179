package fields

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ocr-fields/constants"
)

type fieldExtractor struct {
	name    constants.FieldName
	extract func(*document) (string, bool)
}

// pipeline order is fixed; overlapping cascades are resolved by nothing else.
var pipeline = []fieldExtractor{
	{constants.InvoiceNumber, invoiceNumber},
	{constants.Date, issueDate},
	{constants.DueDate, dueDate},
	{constants.TotalAmount, totalAmount},
	{constants.Subtotal, subtotal},
	{constants.Tax, tax},
	{constants.CustomerName, customerName},
	{constants.ConsumerNo, consumerNumber},
	{constants.Vendor, vendor},
	{constants.Email, email},
	{constants.Phone, phone},
	{constants.DetectedType, documentType},
}

// Extract runs every field extractor over OCR text and returns the sparse
// result. It is pure: the same text always yields the same result.
func Extract(text string) Result {
	doc := newDocument(text)
	res := make(Result, len(pipeline))
	for _, fe := range pipeline {
		if v, ok := fe.extract(doc); ok {
			res.set(fe.name, v)
		}
	}
	return res
}

// Extractor adapts Extract to the processor's FieldExtractor contract.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractFields never fails; the error is part of the contract only.
func (e *Extractor) ExtractFields(_ context.Context, text string) (Result, error) {
	start := time.Now()
	res := Extract(text)
	e.logger.Debug("fields extracted",
		"text_bytes", len(text),
		"fields", len(res),
		"detected_type", res.Get(constants.DetectedType),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
