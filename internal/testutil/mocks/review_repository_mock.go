package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studydeck/internal/models"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) InsertReview(ctx context.Context, review models.ReviewLog) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ReviewStats(ctx context.Context, profileID int64) (*models.ReviewStat, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewStat), args.Error(1)
}
