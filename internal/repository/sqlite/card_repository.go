package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

const (
	defaultListLimit = 200
	insertChunkSize  = 50
)

var cardColumns = []string{
	"id", "profile_id", "question", "answer", "deck",
	"due_date", "interval_days", "ease_factor", "version", "created_at", "updated_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.ProfileID, &c.Question, &c.Answer, &c.Deck,
		&c.DueDate, &c.Interval, &c.EaseFactor, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func cardValues(c models.Card) []any {
	return []any{
		c.ID, c.ProfileID, c.Question, c.Answer, c.Deck,
		c.DueDate.UTC(), c.Interval, c.EaseFactor, c.Version, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s, deck=%s", c.ID, c.Deck)

	q := sqlBuilder.Insert("cards").Columns(cardColumns...).Values(cardValues(c)...)
	if _, err := exec(ctx, r.db, q); err != nil {
		log.Error("failed to insert card: %v", err)
		return err
	}
	return nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards", len(cards))
	if len(cards) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for start := 0; start < len(cards); start += insertChunkSize {
			end := min(start+insertChunkSize, len(cards))
			q := sqlBuilder.Insert("cards").Columns(cardColumns...)
			for _, c := range cards[start:end] {
				q = q.Values(cardValues(c)...)
			}
			if _, err := exec(ctx, tx, q); err != nil {
				log.Error("failed to insert card chunk %d-%d: %v", start, end, err)
				return err
			}
		}
		return nil
	})
}

func (r *cardRepository) Get(ctx context.Context, profileID int64, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s, profile_id=%d", id, profileID)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: profile_id=%d, deck=%q, limit=%d, offset=%d",
		filter.ProfileID, filter.Deck, filter.Limit, filter.Offset)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(filter.Offset, 0)

	q := r.selectCards(filter.ProfileID, filter.Deck).
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return r.query(ctx, q)
}

func (r *cardRepository) All(ctx context.Context, profileID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("loading all cards: profile_id=%d", profileID)

	return r.query(ctx, r.selectCards(profileID, ""))
}

func (r *cardRepository) selectCards(profileID int64, deck string) squirrel.SelectBuilder {
	q := sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"profile_id": profileID})
	if deck != "" {
		q = q.Where(squirrel.Eq{"deck": deck})
	}
	return q.OrderBy("created_at DESC", "id ASC")
}

func (r *cardRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := make([]models.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Decks(ctx context.Context, profileID int64) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing decks: profile_id=%d", profileID)

	query, args, err := sqlBuilder.Select("deck").Distinct().From("cards").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("deck ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	decks := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// UpdateContent edits question, answer and deck. The schedule and its
// version are left alone.
func (r *cardRepository) UpdateContent(ctx context.Context, profileID int64, id string, content models.CardContent, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card content: id=%s, deck=%s", id, content.Deck)

	q := sqlBuilder.Update("cards").
		Set("question", content.Question).
		Set("answer", content.Answer).
		Set("deck", content.Deck).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "profile_id": profileID})

	res, err := exec(ctx, r.db, q)
	if err != nil {
		log.Error("failed to update card content: %v", err)
		return err
	}
	return rowsAffectedOr(res, repository.ErrNotFound)
}

func (r *cardRepository) UpdateSchedule(ctx context.Context, profileID int64, id string, s models.Schedule, expectedVersion int, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card schedule: id=%s, interval=%d, ease=%.2f, version=%d", id, s.Interval, s.EaseFactor, expectedVersion)

	q := sqlBuilder.Update("cards").
		Set("due_date", s.DueDate.UTC()).
		Set("interval_days", s.Interval).
		Set("ease_factor", s.EaseFactor).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "profile_id": profileID, "version": expectedVersion})

	res, err := exec(ctx, r.db, q)
	if err != nil {
		log.Error("failed to update card schedule: %v", err)
		return err
	}
	if err := rowsAffectedOr(res, repository.ErrConflict); err == nil || !errors.Is(err, repository.ErrConflict) {
		return err
	}

	// Nothing matched: either the card is gone or another grade won.
	if _, err := r.Get(ctx, profileID, id); err != nil {
		return err
	}
	log.Warn("schedule update lost version race: id=%s, expected_version=%d", id, expectedVersion)
	return repository.ErrConflict
}

func (r *cardRepository) Delete(ctx context.Context, profileID int64, id string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%s, profile_id=%d", id, profileID)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM review_log
WHERE card_id IN (SELECT id FROM cards WHERE id = ? AND profile_id = ?)
`, id, profileID); err != nil {
			log.Error("failed to delete review log for card %s: %v", id, err)
			return err
		}

		res, err := exec(ctx, tx, sqlBuilder.Delete("cards").Where(squirrel.Eq{"id": id, "profile_id": profileID}))
		if err != nil {
			log.Error("failed to delete card %s: %v", id, err)
			return err
		}
		return rowsAffectedOr(res, repository.ErrNotFound)
	})
}
