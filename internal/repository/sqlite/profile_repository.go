package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Upsert(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("upserting profile for username: %s", username)

	// RETURNING columns carry no declared type, so the driver would hand back
	// created_at as text. Insert, then read the row through a plain SELECT.
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (username)
VALUES (?)
ON CONFLICT(username) DO NOTHING
`, username); err != nil {
		log.Error("failed to upsert profile: %v", err)
		return nil, err
	}

	var p models.Profile
	var lastStudy sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at, last_study_at
FROM profiles
WHERE username = ?
`, username).Scan(&p.ID, &p.Username, &p.CreatedAt, &lastStudy)
	if err != nil {
		log.Error("failed to load upserted profile: %v", err)
		return nil, err
	}
	if lastStudy.Valid {
		p.LastStudyAt = &lastStudy.Time
	}
	log.Debug("profile upserted: id=%d", p.ID)
	return &p, nil
}

func (r *profileRepository) TouchStudy(ctx context.Context, id int64, t time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating last study time: profile_id=%d", id)

	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET last_study_at = ? WHERE id = ?`, t.UTC(), id)
	if err != nil {
		log.Error("failed to update last study time: %v", err)
	}
	return err
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profiles")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, created_at, last_study_at
FROM profiles
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		var p models.Profile
		var lastStudy sql.NullTime
		if err := rows.Scan(&p.ID, &p.Username, &p.CreatedAt, &lastStudy); err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, err
		}
		if lastStudy.Valid {
			p.LastStudyAt = &lastStudy.Time
		}
		profiles = append(profiles, p)
	}

	log.Debug("found %d profiles", len(profiles))
	return profiles, rows.Err()
}

func (r *profileRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%d", id)

	var p models.Profile
	var lastStudy sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at, last_study_at
FROM profiles
WHERE id = ?
`, id).Scan(&p.ID, &p.Username, &p.CreatedAt, &lastStudy)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: id=%d", id)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	if lastStudy.Valid {
		p.LastStudyAt = &lastStudy.Time
	}
	return &p, nil
}

func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile and related data: id=%d", id)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		// review_log -> cards -> profile, explicit so it does not depend on
		// foreign_keys being enabled on the connection.
		if _, err := tx.ExecContext(ctx, `
DELETE FROM review_log
WHERE card_id IN (SELECT id FROM cards WHERE profile_id = ?)
`, id); err != nil {
			log.Error("failed to delete review log for profile %d: %v", id, err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE profile_id = ?`, id); err != nil {
			log.Error("failed to delete cards for profile %d: %v", id, err)
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
		if err != nil {
			log.Error("failed to delete profile %d: %v", id, err)
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}

		log.Debug("profile %d deleted with cascading data", id)
		return nil
	})
}
