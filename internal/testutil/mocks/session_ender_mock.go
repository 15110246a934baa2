package mocks

import "github.com/stretchr/testify/mock"

// MockSessionEnder is a mock implementation of services.SessionEnder
type MockSessionEnder struct {
	mock.Mock
}

func (m *MockSessionEnder) EndSession(profileID int64) {
	m.Called(profileID)
}
