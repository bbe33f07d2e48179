package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/common"
	"github.com/joseph-ayodele/ocr-fields/internal/entity"
	"github.com/joseph-ayodele/ocr-fields/internal/repository"
)

const sheet = "Extractions"

// Service is a tiny façade over the extraction repository that produces XLSX bytes.
type Service struct {
	extractions repository.ExtractionRepository
	logger      *slog.Logger
}

func NewService(repo repository.ExtractionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{extractions: repo, logger: logger}
}

// fieldColumns are every field except detected_type, which gets its own column up front.
func fieldColumns() []constants.FieldName {
	var out []constants.FieldName
	for _, f := range constants.AllFieldNames() {
		if f != constants.DetectedType {
			out = append(out, f)
		}
	}
	return out
}

// Headers returns the column titles of the export sheet.
func Headers() []string {
	h := []string{"ID", "Source", "Document Type"}
	for _, f := range fieldColumns() {
		h = append(h, string(f))
	}
	return append(h, "Confidence", "Words", "Characters", "Mode", "Language", "Created At")
}

// ExportExtractionsXLSX returns an XLSX workbook (as bytes) with one row per stored extraction.
func (s *Service) ExportExtractionsXLSX(ctx context.Context, filter repository.ListFilter) ([]byte, error) {
	start := time.Now()
	recs, err := s.extractions.List(ctx, filter)
	if err != nil {
		return nil, common.WrapError(err, "query extractions")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, common.WrapError(err, "rename sheet")
	}

	header := make([]any, 0, len(Headers()))
	for _, h := range Headers() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, common.WrapError(err, "write header")
	}

	for i, r := range recs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowValues(r)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // id
	_ = f.SetColWidth(sheet, "B", "B", 48) // source
	_ = f.SetColWidth(sheet, "C", "C", 18) // document type
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		s.logger.Warn("failed to freeze header row", "error", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.WrapError(err, "xlsx write")
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"detected_type", filter.DetectedType,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func rowValues(r *entity.Extraction) []any {
	row := []any{r.ID.String(), r.SourcePath, string(r.DocumentType())}
	for _, f := range fieldColumns() {
		row = append(row, r.Fields.Get(f))
	}
	return append(row,
		r.Confidence,
		r.WordCount,
		r.CharCount,
		string(r.Mode),
		r.Lang,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
}
