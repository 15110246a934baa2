package worker

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/vytor/studydeck/internal/importer"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
)

// ImportStatus is the shared, lock-protected view of one import job.
type ImportStatus struct {
	mu  sync.Mutex
	job models.ImportJob
}

func NewImportStatus(job models.ImportJob) *ImportStatus {
	if job.State == "" {
		job.State = models.ImportQueued
	}
	return &ImportStatus{job: job}
}

// Snapshot returns a copy safe to hand to other goroutines.
func (s *ImportStatus) Snapshot() models.ImportJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.job
	job.RowErrors = append([]string(nil), s.job.RowErrors...)
	return job
}

func (s *ImportStatus) update(fn func(*models.ImportJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.job)
}

// ImportCardsJob parses an uploaded spreadsheet and stores its rows as new
// cards. Rows with their own deck column go to that deck; the rest go to Deck.
type ImportCardsJob struct {
	Cards     CardCreator
	Status    *ImportStatus
	ProfileID int64
	Deck      string
	Filename  string
	Data      []byte
	Options   importer.Options
}

func (j *ImportCardsJob) Name() string { return "import_cards" }

func (j *ImportCardsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"profile_id": j.ProfileID,
		"deck":       j.Deck,
		"file":       j.Filename,
	})
	log.Info("starting card import")
	j.Status.update(func(job *models.ImportJob) { job.State = models.ImportRunning })

	created, rowErrors, err := j.importRows(ctx, log)

	finished := time.Now()
	j.Status.update(func(job *models.ImportJob) {
		job.Created = created
		job.RowErrors = rowErrors
		job.FinishedAt = &finished
		if err != nil {
			job.State = models.ImportFailed
			job.Error = err.Error()
			return
		}
		job.State = models.ImportDone
	})
	if err != nil {
		return err
	}

	log.Info("imported %d cards, %d rows rejected", created, len(rowErrors))
	return nil
}

func (j *ImportCardsJob) importRows(ctx context.Context, log *logger.Logger) (int, []string, error) {
	format, err := importer.FormatFromFilename(j.Filename)
	if err != nil {
		return 0, nil, err
	}

	res, err := importer.Parse(bytes.NewReader(j.Data), format, j.Options)
	if err != nil {
		log.Error("failed to parse %s: %v", j.Filename, err)
		return 0, nil, err
	}

	rowErrors := make([]string, 0, len(res.Errors))
	for _, re := range res.Errors {
		rowErrors = append(rowErrors, re.Error())
	}

	decks, byDeck := groupByDeck(res.Rows, j.Deck)
	created := 0
	for _, deck := range decks {
		if err := ctx.Err(); err != nil {
			log.Warn("import cancelled: %v", err)
			return created, rowErrors, err
		}
		cards, err := j.Cards.CreateCards(ctx, j.ProfileID, deck, byDeck[deck])
		if err != nil {
			log.Error("failed to store %d cards in deck %q: %v", len(byDeck[deck]), deck, err)
			return created, rowErrors, err
		}
		created += len(cards)
		log.Debug("stored %d cards in deck %q", len(cards), deck)
	}
	return created, rowErrors, nil
}

// groupByDeck buckets rows by deck, keeping decks in first-seen order.
func groupByDeck(rows []importer.Row, fallback string) ([]string, map[string][]models.CardItem) {
	order := make([]string, 0)
	byDeck := make(map[string][]models.CardItem)
	for _, r := range rows {
		deck := r.Deck
		if deck == "" {
			deck = fallback
		}
		if _, ok := byDeck[deck]; !ok {
			order = append(order, deck)
		}
		byDeck[deck] = append(byDeck[deck], models.CardItem{Question: r.Question, Answer: r.Answer})
	}
	return order, byDeck
}
