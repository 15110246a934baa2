package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studydeck/internal/models"
)

// MockCardCreator is a mock implementation of worker.CardCreator
type MockCardCreator struct {
	mock.Mock
}

func (m *MockCardCreator) CreateCards(ctx context.Context, profileID int64, deck string, items []models.CardItem) ([]models.Card, error) {
	args := m.Called(ctx, profileID, deck, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}
