package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/ocr-fields/constants"
	"github.com/joseph-ayodele/ocr-fields/internal/common"
	"github.com/joseph-ayodele/ocr-fields/internal/entity"
)

const extractionTable = "extraction"

// createdAtLayout is fixed-width so that text ordering matches time ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

var extractionColumns = []string{
	"id", "source_path", "source_type", "method", "detected_type", "text", "fields",
	"confidence", "word_count", "char_count", "mode", "lang", "warnings", "created_at",
}

// ListFilter narrows List; zero values mean no filter and no limit.
type ListFilter struct {
	DetectedType constants.DocumentType
	Limit        int
}

type ExtractionRepository interface {
	Save(ctx context.Context, e *entity.Extraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Extraction, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Extraction, error)
	Count(ctx context.Context) (int, error)
}

type extractionRepo struct {
	db  *DB
	log *slog.Logger
}

func NewExtractionRepository(db *DB, log *slog.Logger) ExtractionRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractionRepo{db: db, log: log}
}

func (r *extractionRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.dialect)
}

func (r *extractionRepo) Save(ctx context.Context, e *entity.Extraction) error {
	v := common.NewValidator().
		Field("source", e.SourcePath, common.Required).
		Field("source_type", e.SourceType, common.OneOf(constants.FileTypes...)).
		Field("mode", string(e.Mode), common.OneOf(constants.ModesAsStringSlice()...))
	if err := common.ValidateAndReturnError(v); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	fieldsJSON, err := json.Marshal(e.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	warnings := e.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	query, args := r.builder().Insert(extractionTable).
		Columns(extractionColumns...).
		Values(
			e.ID.String(), e.SourcePath, e.SourceType, e.Method, string(e.DocumentType()), e.Text, string(fieldsJSON),
			e.Confidence, e.WordCount, e.CharCount, string(e.Mode), e.Lang, string(warningsJSON),
			e.CreatedAt.UTC().Format(createdAtLayout),
		).
		Query()
	if err := r.db.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("extraction save failed", "id", e.ID, "error", err)
		return fmt.Errorf("%w: save extraction: %w", common.ErrDatabase, err)
	}
	r.log.Info("extraction saved", "id", e.ID, "source", e.SourcePath, "detected_type", e.DocumentType())
	return nil
}

func (r *extractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Extraction, error) {
	b := r.builder()
	sel := b.Select(extractionColumns...).
		From(b.Table(extractionTable)).
		Where(entsql.EQ("id", id.String()))
	out, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("extraction %s: %w", id, common.ErrNotFound)
	}
	return out[0], nil
}

// List returns extractions newest first.
func (r *extractionRepo) List(ctx context.Context, f ListFilter) ([]*entity.Extraction, error) {
	b := r.builder()
	sel := b.Select(extractionColumns...).
		From(b.Table(extractionTable)).
		OrderExpr(entsql.Expr("created_at DESC, id DESC"))
	if f.DetectedType != "" {
		sel.Where(entsql.EQ("detected_type", string(f.DetectedType)))
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	return r.query(ctx, sel)
}

func (r *extractionRepo) Count(ctx context.Context) (int, error) {
	b := r.builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(extractionTable)).Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("%w: count extractions: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("%w: scan count: %w", common.ErrDatabase, err)
		}
	}
	return n, rows.Err()
}

func (r *extractionRepo) query(ctx context.Context, sel *entsql.Selector) ([]*entity.Extraction, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		r.log.Error("extraction query failed", "error", err)
		return nil, fmt.Errorf("%w: query extractions: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Extraction
	for rows.Next() {
		e, err := scanExtraction(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate extractions: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func scanExtraction(rows *entsql.Rows) (*entity.Extraction, error) {
	var (
		e                                 entity.Extraction
		id, detectedType, mode, createdAt string
		fieldsJSON, warningsJSON          string
	)
	if err := rows.Scan(
		&id, &e.SourcePath, &e.SourceType, &e.Method, &detectedType, &e.Text, &fieldsJSON,
		&e.Confidence, &e.WordCount, &e.CharCount, &mode, &e.Lang, &warningsJSON, &createdAt,
	); err != nil {
		return nil, fmt.Errorf("%w: scan extraction: %w", common.ErrDatabase, err)
	}

	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if e.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &e.Warnings); err != nil {
		return nil, fmt.Errorf("decode warnings: %w", err)
	}
	if len(e.Warnings) == 0 {
		e.Warnings = nil
	}
	e.Mode = constants.Mode(mode)
	return &e, nil
}
