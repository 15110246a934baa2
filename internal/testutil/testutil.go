package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studydeck/internal/db"
	"github.com/vytor/studydeck/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// CreateProfile inserts a profile and returns its id.
func CreateProfile(t *testing.T, sqlDB *sql.DB, username string) int64 {
	ctx := context.Background()
	_, err := sqlDB.ExecContext(ctx, `INSERT INTO profiles (username) VALUES (?)`, username)
	require.NoError(t, err)

	var id int64
	err = sqlDB.QueryRowContext(ctx, `SELECT id FROM profiles WHERE username = ?`, username).Scan(&id)
	require.NoError(t, err)
	return id
}

// NewCard builds a fresh card due at the start of now's day.
func NewCard(id string, profileID int64, deck string, now time.Time) models.Card {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return models.Card{
		ID:        id,
		ProfileID: profileID,
		Question:  "question " + id,
		Answer:    "answer " + id,
		Deck:      deck,
		Schedule: models.Schedule{
			DueDate:    day,
			Interval:   1,
			EaseFactor: 2.5,
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
