package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/common"
	"github.com/joseph-ayodele/ocr-fields/internal/core/extract"
	"github.com/joseph-ayodele/ocr-fields/internal/core/fields"
	"github.com/joseph-ayodele/ocr-fields/internal/repository"
)

type stubText struct {
	res     extract.TextExtractionResult
	err     error
	gotMode constants.Mode
	gotLang string
}

func (s *stubText) Extract(_ context.Context, _ string, mode constants.Mode, lang string) (extract.TextExtractionResult, error) {
	s.gotMode, s.gotLang = mode, lang
	return s.res, s.err
}

type badFields struct{}

func (badFields) ExtractFields(context.Context, string) (fields.Result, error) {
	return fields.Result{constants.Vendor: "x"}, nil
}

const receiptText = "  Corner Bakery\nCroissant 3.50\nTOTAL $3.50\nThank you for visiting  \n"

func newRepo(t *testing.T) repository.ExtractionRepository {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return repository.NewExtractionRepository(db, nil)
}

func TestProcessFile(t *testing.T) {
	text := &stubText{res: extract.TextExtractionResult{
		Text:       receiptText,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Confidence: 91.3,
		WordCount:  9,
		Duration:   20 * time.Millisecond,
	}}
	repo := newRepo(t)
	p := NewProcessor(nil, text, nil, repo)

	got, err := p.ProcessFile(context.Background(), Request{Path: "bakery.jpg", Mode: " Receipt "})
	require.NoError(t, err)

	assert.Equal(t, constants.ModeReceipt, text.gotMode)
	assert.Equal(t, "eng", text.gotLang)
	assert.Equal(t, "Corner Bakery\nCroissant 3.50\nTOTAL $3.50\nThank you for visiting", got.Text)
	assert.Equal(t, len([]rune(got.Text)), got.CharCount)
	assert.Equal(t, 91.3, got.Confidence)
	assert.Equal(t, 9, got.WordCount)
	assert.Equal(t, constants.ModeReceipt, got.Mode)
	assert.Equal(t, "$3.50", got.Fields.Get(constants.TotalAmount))
	assert.Equal(t, "Corner Bakery", got.Fields.Get(constants.Vendor))
	assert.Equal(t, constants.DocReceipt, got.DocumentType())

	stored, err := repo.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Fields, stored.Fields)
	assert.Equal(t, "bakery.jpg", stored.SourcePath)
}

func TestProcessFile_UnknownModeFallsBackToAuto(t *testing.T) {
	text := &stubText{res: extract.TextExtractionResult{Text: "ok"}}
	p := NewProcessor(nil, text, nil, nil)

	got, err := p.ProcessFile(context.Background(), Request{Path: "a.png", Mode: "blurry", Lang: "fra"})
	require.NoError(t, err)
	assert.Equal(t, constants.ModeAuto, got.Mode)
	assert.Equal(t, "fra", text.gotLang)
	assert.Equal(t, fields.Result{constants.DetectedType: "General Document"}, got.Fields)
}

func TestProcessFile_Errors(t *testing.T) {
	p := NewProcessor(nil, &stubText{}, nil, nil)
	_, err := p.ProcessFile(context.Background(), Request{})
	assert.Equal(t, codes.InvalidArgument, common.StatusFromError(err).Code())

	ocrErr := errors.Join(common.ErrOCR, errors.New("tesseract missing"))
	p = NewProcessor(nil, &stubText{err: ocrErr}, nil, nil)
	_, err = p.ProcessFile(context.Background(), Request{Path: "a.png"})
	assert.ErrorIs(t, err, common.ErrOCR)

	p = NewProcessor(nil, &stubText{res: extract.TextExtractionResult{Text: "x"}}, badFields{}, nil)
	_, err = p.ProcessFile(context.Background(), Request{Path: "a.png"})
	assert.ErrorIs(t, err, common.ErrValidation)

	p = NewProcessor(nil, nil, nil, nil)
	_, err = p.ProcessFile(context.Background(), Request{Path: "a.png"})
	st := common.StatusFromError(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Contains(t, st.Message(), "a.png")
}

func TestProcessText(t *testing.T) {
	p := NewProcessor(nil, nil, nil, nil)

	got, err := p.ProcessText(context.Background(), "", "Invoice No: INV-2024-001\nTOTAL 10.00")
	require.NoError(t, err)
	assert.Equal(t, "-", got.SourcePath)
	assert.Equal(t, constants.TXT, got.SourceType)
	assert.Equal(t, 5, got.WordCount)
	assert.Equal(t, "INV-2024-001", got.Fields.Get(constants.InvoiceNumber))
	assert.Equal(t, constants.DocInvoice, got.DocumentType())
	assert.Zero(t, got.Confidence)
}

func TestProcessText_LogsCarryRequestID(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewProcessor(logger, &stubText{}, nil, nil)

	ctx := common.WithRequestID(context.Background(), "req-42")
	_, err := p.ProcessText(ctx, "note.txt", receiptText)
	require.NoError(t, err)

	var fieldsLine string
	for _, line := range bytes.Split(out.Bytes(), []byte("\n")) {
		if bytes.Contains(line, []byte("processor.fields.ok")) {
			fieldsLine = string(line)
		}
	}
	require.NotEmpty(t, fieldsLine)
	assert.Contains(t, fieldsLine, `"request_id":"req-42"`)
}
