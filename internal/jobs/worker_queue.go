package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/studydeck/internal/importer"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/worker"
)

// maxTrackedImports bounds the status map; the oldest finished jobs are
// forgotten first.
const maxTrackedImports = 256

// WorkerQueue implements ImportQueue on a worker pool
type WorkerQueue struct {
	importPool *worker.Pool
	cards      worker.CardCreator
	options    importer.Options

	mu       sync.Mutex
	statuses map[string]*worker.ImportStatus
	order    []string
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(importPool *worker.Pool, cards worker.CardCreator, maxRows int) ImportQueue {
	return &WorkerQueue{
		importPool: importPool,
		cards:      cards,
		options:    importer.Options{MaxRows: maxRows},
		statuses:   make(map[string]*worker.ImportStatus),
	}
}

func (q *WorkerQueue) EnqueueImport(ctx context.Context, req ImportRequest) (models.ImportJob, error) {
	log := logger.FromContext(ctx).WithPrefix("import_queue")

	status := worker.NewImportStatus(models.ImportJob{
		ID:        uuid.NewString(),
		ProfileID: req.ProfileID,
		Deck:      req.Deck,
		Filename:  req.Filename,
		QueuedAt:  time.Now(),
	})
	job := status.Snapshot()

	q.track(job.ID, status)
	err := q.importPool.Submit(&worker.ImportCardsJob{
		Cards:     q.cards,
		Status:    status,
		ProfileID: req.ProfileID,
		Deck:      req.Deck,
		Filename:  req.Filename,
		Data:      req.Data,
		Options:   q.options,
	})
	if err != nil {
		q.forget(job.ID)
		log.Warn("failed to enqueue import %s: %v", job.ID, err)
		return models.ImportJob{}, err
	}

	log.Info("queued import %s: profile_id=%d, deck=%q, file=%s, bytes=%d",
		job.ID, req.ProfileID, req.Deck, req.Filename, len(req.Data))
	return job, nil
}

func (q *WorkerQueue) ImportStatus(ctx context.Context, profileID int64, id string) (models.ImportJob, error) {
	q.mu.Lock()
	status, ok := q.statuses[id]
	q.mu.Unlock()
	if !ok {
		return models.ImportJob{}, ErrJobNotFound
	}

	job := status.Snapshot()
	if job.ProfileID != profileID {
		return models.ImportJob{}, ErrJobNotFound
	}
	return job, nil
}

func (q *WorkerQueue) Pending() int {
	return q.importPool.QueueSize()
}

func (q *WorkerQueue) track(id string, status *worker.ImportStatus) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.statuses[id] = status
	q.order = append(q.order, id)
	for len(q.order) > maxTrackedImports {
		oldest := q.order[0]
		state := q.statuses[oldest].Snapshot().State
		if state != models.ImportDone && state != models.ImportFailed {
			break
		}
		delete(q.statuses, oldest)
		q.order = q.order[1:]
	}
}

func (q *WorkerQueue) forget(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.statuses, id)
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}
