package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/internal/entity"
)

var ErrQueueClosed = errors.New("queue is shut down")

// Job asks a worker to process one document on disk.
type Job struct {
	ID          uuid.UUID
	Path        string
	SubmittedAt time.Time
	RequestID   string
}

// Result is handed to the result callback once a job finishes.
type Result struct {
	Job      Job
	Report   *entity.Report
	Err      error
	WorkerID int
	Duration time.Duration
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context) error
}
