package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studydeck/internal/jobs"
	"github.com/vytor/studydeck/internal/models"
)

// MockImportQueue is a mock implementation of jobs.ImportQueue
type MockImportQueue struct {
	mock.Mock
}

func (m *MockImportQueue) EnqueueImport(ctx context.Context, req jobs.ImportRequest) (models.ImportJob, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.ImportJob), args.Error(1)
}

func (m *MockImportQueue) Pending() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockImportQueue) ImportStatus(ctx context.Context, profileID int64, id string) (models.ImportJob, error) {
	args := m.Called(ctx, profileID, id)
	return args.Get(0).(models.ImportJob), args.Error(1)
}
