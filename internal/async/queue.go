package async

import (
	"context"
	"time"

	"github.com/diegoandradesramos-hub/pvp/internal/pipeline"
)

// Job is the smallest useful unit. Extend as needed later (trace, retry, etc).
type Job struct {
	Path        string
	Meta        pipeline.Meta
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
