package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/ocr-fields/internal/entity"
)

var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document waiting for OCR and field extraction.
type Job struct {
	Path        string
	Mode        string
	Lang        string
	SubmittedAt time.Time
	TraceID     string
}

// ResultHandler receives every finished job; report is nil when err is set.
// It is called from worker goroutines and must be safe for concurrent use.
type ResultHandler func(job Job, report *entity.Extraction, err error)

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
