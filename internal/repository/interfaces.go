package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/studydeck/internal/models"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist for the profile.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when an optimistic update finds a newer version.
	ErrConflict = errors.New("repository: version conflict")
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, username string) (*models.Profile, error)
	TouchStudy(ctx context.Context, id int64, t time.Time) error
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access. Every call is scoped to a profile.
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) error
	InsertBatch(ctx context.Context, cards []models.Card) error
	Get(ctx context.Context, profileID int64, id string) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	All(ctx context.Context, profileID int64) ([]models.Card, error)
	Decks(ctx context.Context, profileID int64) ([]string, error)
	UpdateContent(ctx context.Context, profileID int64, id string, content models.CardContent, at time.Time) error
	// UpdateSchedule stores s only if the card is still at expectedVersion,
	// and bumps the version. Returns ErrConflict otherwise.
	UpdateSchedule(ctx context.Context, profileID int64, id string, s models.Schedule, expectedVersion int, at time.Time) error
	Delete(ctx context.Context, profileID int64, id string) error
}

// ReviewRepository handles review log access
type ReviewRepository interface {
	InsertReview(ctx context.Context, review models.ReviewLog) error
	ReviewStats(ctx context.Context, profileID int64) (*models.ReviewStat, error)
}
