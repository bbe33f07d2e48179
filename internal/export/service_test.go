package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/core/fields"
	"github.com/joseph-ayodele/ocr-fields/internal/entity"
	"github.com/joseph-ayodele/ocr-fields/internal/repository"
)

func seededRepo(t *testing.T) repository.ExtractionRepository {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	repo := repository.NewExtractionRepository(db, nil)

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &entity.Extraction{
		SourcePath: "inv.pdf",
		SourceType: constants.PDF,
		Text:       "Invoice No: A-1",
		Fields: fields.Result{
			constants.InvoiceNumber: "A-1",
			constants.DetectedType:  "Invoice",
		},
		Confidence: 90.5,
		WordCount:  3,
		CharCount:  15,
		Mode:       constants.ModeInvoice,
		Lang:       "eng",
		CreatedAt:  base,
	}))
	require.NoError(t, repo.Save(ctx, &entity.Extraction{
		SourcePath: "till.png",
		SourceType: constants.IMAGE,
		Fields: fields.Result{
			constants.TotalAmount:  "$4.20",
			constants.DetectedType: "Receipt",
		},
		Mode:      constants.ModeReceipt,
		Lang:      "eng",
		CreatedAt: base.Add(time.Minute),
	}))
	return repo
}

func TestHeaders(t *testing.T) {
	h := Headers()
	assert.Equal(t, []string{"ID", "Source", "Document Type", "invoice_number"}, h[:4])
	assert.Equal(t, "Created At", h[len(h)-1])
	assert.NotContains(t, h, "detected_type")
	assert.Len(t, h, 3+11+6)
}

func TestExportExtractionsXLSX(t *testing.T) {
	svc := NewService(seededRepo(t), nil)

	b, err := svc.ExportExtractionsXLSX(context.Background(), repository.ListFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Extractions"}, f.GetSheetList())

	rows, err := f.GetRows("Extractions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers()[:3], rows[0][:3])

	// newest first
	assert.Equal(t, "till.png", rows[1][1])
	assert.Equal(t, "Receipt", rows[1][2])
	assert.Equal(t, "$4.20", rows[1][3+3]) // total_amount is the 4th field column
	assert.Equal(t, "inv.pdf", rows[2][1])
	assert.Equal(t, "A-1", rows[2][3])
}

func TestExportExtractionsXLSX_Filter(t *testing.T) {
	svc := NewService(seededRepo(t), nil)

	b, err := svc.ExportExtractionsXLSX(context.Background(), repository.ListFilter{DetectedType: constants.DocInvoice})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Extractions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "inv.pdf", rows[1][1])
}
