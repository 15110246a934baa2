package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studydeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) InsertBatch(ctx context.Context, cards []models.Card) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

func (m *MockCardRepository) Get(ctx context.Context, profileID int64, id string) (*models.Card, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) All(ctx context.Context, profileID int64) ([]models.Card, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Decks(ctx context.Context, profileID int64) ([]string, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCardRepository) UpdateContent(ctx context.Context, profileID int64, id string, content models.CardContent, at time.Time) error {
	args := m.Called(ctx, profileID, id, content, at)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateSchedule(ctx context.Context, profileID int64, id string, s models.Schedule, expectedVersion int, at time.Time) error {
	args := m.Called(ctx, profileID, id, s, expectedVersion, at)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, profileID int64, id string) error {
	args := m.Called(ctx, profileID, id)
	return args.Error(0)
}
