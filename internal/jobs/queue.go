package jobs

import (
	"context"
	"errors"

	"github.com/vytor/studydeck/internal/models"
)

// ErrJobNotFound is returned for unknown job ids and for jobs owned by
// another profile.
var ErrJobNotFound = errors.New("jobs: job not found")

// ImportRequest is an uploaded file waiting to become cards.
type ImportRequest struct {
	ProfileID int64
	Deck      string
	Filename  string
	Data      []byte
}

// ImportQueue provides an abstraction for enqueueing background imports
type ImportQueue interface {
	EnqueueImport(ctx context.Context, req ImportRequest) (models.ImportJob, error)
	ImportStatus(ctx context.Context, profileID int64, id string) (models.ImportJob, error)
	// Pending reports how many imports are waiting for a worker.
	Pending() int
}
