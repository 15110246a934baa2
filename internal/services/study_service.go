package services

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/flashcard"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

// SessionState is a due-card selection plus how far the profile got through
// the session it started.
type SessionState struct {
	flashcard.Session
	Progress flashcard.ProgressSnapshot `json:"progress"`
}

// ReviewResult is the graded card with its new schedule and the recomputed
// session.
type ReviewResult struct {
	Card    models.Card  `json:"card"`
	Session SessionState `json:"session"`
}

// StudyService drives review sessions
type StudyService interface {
	// StartSession selects the cards due today and resets progress.
	StartSession(ctx context.Context, profileID int64, deck string) (*SessionState, error)
	// ReviewCard grades one card, persists its new schedule and returns the
	// recomputed due set. Recomputing clears the answered set.
	ReviewCard(ctx context.Context, profileID int64, cardID string, quality int, timeSeconds float64) (*ReviewResult, error)
	Stats(ctx context.Context, profileID int64) (*models.StudyStat, error)
	// EndSession forgets the profile's session state.
	EndSession(profileID int64)
}

type profileSession struct {
	deck     string
	progress *flashcard.Progress
}

type studyService struct {
	cardRepo    repository.CardRepository
	reviewRepo  repository.ReviewRepository
	profileRepo repository.ProfileRepository
	opts        options

	mu       sync.Mutex
	sessions map[int64]*profileSession
}

// NewStudyService creates a new StudyService
func NewStudyService(
	cardRepo repository.CardRepository,
	reviewRepo repository.ReviewRepository,
	profileRepo repository.ProfileRepository,
	opts ...Option,
) StudyService {
	return &studyService{
		cardRepo:    cardRepo,
		reviewRepo:  reviewRepo,
		profileRepo: profileRepo,
		opts:        newOptions(opts),
		sessions:    make(map[int64]*profileSession),
	}
}

// selectDue loads the profile's cards and picks today's due set. limit caps
// the result when positive.
func (s *studyService) selectDue(ctx context.Context, profileID int64, deck string, limit int) (flashcard.Session, error) {
	cards, err := s.cardRepo.All(ctx, profileID)
	if err != nil {
		return flashcard.Session{}, err
	}
	return flashcard.SelectSession(cards, deck, s.opts.clock(), s.opts.shuffler).Truncate(limit), nil
}

func (s *studyService) StartSession(ctx context.Context, profileID int64, deck string) (*SessionState, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: profile_id=%d, deck=%q", profileID, deck)

	session, err := s.selectDue(ctx, profileID, deck, s.opts.sessionLimit)
	if err != nil {
		log.Error("failed to load cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.mu.Lock()
	ps := &profileSession{deck: deck, progress: flashcard.NewProgress(session.Total)}
	s.sessions[profileID] = ps
	snapshot := ps.progress.Snapshot()
	s.mu.Unlock()

	log.Info("session started: profile_id=%d, deck=%q, due=%d", profileID, deck, session.Total)
	return &SessionState{Session: session, Progress: snapshot}, nil
}

func (s *studyService) ReviewCard(ctx context.Context, profileID int64, cardID string, quality int, timeSeconds float64) (*ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing card: id=%s, quality=%d", cardID, quality)

	if err := flashcard.ValidateQuality(quality); err != nil {
		return nil, errors.NewInvalidRatingError(err)
	}
	if timeSeconds < 0 {
		return nil, errors.NewValidationError("time_seconds", "must not be negative")
	}

	card, err := s.cardRepo.Get(ctx, profileID, cardID)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			log.Error("failed to get card: %v", err)
		}
		return nil, repoError(err, "card", cardID)
	}

	ps := s.ensureSession(profileID)

	now := s.opts.clock()
	updated, err := flashcard.ApplyReview(*card, quality, now)
	if err != nil {
		return nil, errors.NewInvalidRatingError(err)
	}
	log.Debug("applied review, new interval=%d days, ease_factor=%.2f", updated.Interval, updated.EaseFactor)

	if err := s.cardRepo.UpdateSchedule(ctx, profileID, cardID, updated.Schedule, card.Version, now); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			log.Warn("concurrent review of card %s rejected", cardID)
		} else {
			log.Error("failed to update card schedule: %v", err)
		}
		return nil, repoError(err, "card", cardID)
	}
	updated.Version = card.Version + 1
	updated.UpdatedAt = now

	if err := s.reviewRepo.InsertReview(ctx, models.ReviewLog{
		CardID:      cardID,
		Quality:     quality,
		Interval:    updated.Interval,
		EaseFactor:  updated.EaseFactor,
		TimeSeconds: timeSeconds,
		ReviewedAt:  now,
	}); err != nil {
		log.Warn("failed to store review log: %v", err)
	}
	if err := s.profileRepo.TouchStudy(ctx, profileID, now); err != nil {
		log.Warn("failed to update last study time: %v", err)
	}

	s.mu.Lock()
	ps.progress.MarkAnswered(cardID)
	deck := ps.deck
	s.mu.Unlock()

	remaining, err := s.selectDue(ctx, profileID, deck, s.opts.sessionLimit)
	if err != nil {
		log.Error("failed to recompute session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// a recomputed due set starts a fresh answered set
	s.mu.Lock()
	ps.progress.Reset(remaining.Total)
	snapshot := ps.progress.Snapshot()
	s.mu.Unlock()

	return &ReviewResult{
		Card:    updated,
		Session: SessionState{Session: remaining, Progress: snapshot},
	}, nil
}

// ensureSession returns the profile's running session, starting an all-decks
// one when the profile grades without having started a session.
func (s *studyService) ensureSession(profileID int64) *profileSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.sessions[profileID]
	if !ok {
		ps = &profileSession{progress: flashcard.NewProgress(0)}
		s.sessions[profileID] = ps
	}
	return ps
}

func (s *studyService) EndSession(profileID int64) {
	s.mu.Lock()
	delete(s.sessions, profileID)
	s.mu.Unlock()
}

func (s *studyService) Stats(ctx context.Context, profileID int64) (*models.StudyStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing study stats: profile_id=%d", profileID)

	cards, err := s.cardRepo.All(ctx, profileID)
	if err != nil {
		log.Error("failed to load cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	stat := flashcard.CardStats(cards, s.opts.clock())

	reviews, err := s.reviewRepo.ReviewStats(ctx, profileID)
	if err != nil {
		log.Error("failed to load review stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	stat.TotalReviews = reviews.TotalReviews
	if reviews.TotalReviews > 0 {
		stat.Accuracy = float64(reviews.CorrectReviews) / float64(reviews.TotalReviews) * 100
	}

	return &stat, nil
}
