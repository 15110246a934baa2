package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) InsertReview(ctx context.Context, review models.ReviewLog) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("inserting review: card_id=%s, quality=%d, time_seconds=%.2f", review.CardID, review.Quality, review.TimeSeconds)

	q := sqlBuilder.Insert("review_log").
		Columns("card_id", "quality", "interval_days", "ease_factor", "time_seconds", "reviewed_at").
		Values(review.CardID, review.Quality, review.Interval, review.EaseFactor, review.TimeSeconds, review.ReviewedAt.UTC())

	if _, err := exec(ctx, r.db, q); err != nil {
		log.Error("failed to insert review: %v", err)
		return err
	}
	return nil
}

func (r *reviewRepository) ReviewStats(ctx context.Context, profileID int64) (*models.ReviewStat, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("getting review stats: profile_id=%d", profileID)

	query, args, err := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN r.quality >= 3 THEN 1 ELSE 0 END), 0)",
		"COALESCE(AVG(r.quality), 0)",
		"COALESCE(AVG(r.time_seconds), 0)",
	).
		From("review_log r").
		Join("cards c ON c.id = r.card_id").
		Where(squirrel.Eq{"c.profile_id": profileID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var stat models.ReviewStat
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&stat.TotalReviews,
		&stat.CorrectReviews,
		&stat.AvgQuality,
		&stat.AvgTimeSeconds,
	)
	if err != nil {
		log.Error("failed to get review stats: %v", err)
		return nil, err
	}

	log.Debug("review stats: total=%d, correct=%d", stat.TotalReviews, stat.CorrectReviews)
	return &stat, nil
}
