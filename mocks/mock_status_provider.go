package mocks

import (
	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
)

// MockStatusProvider is a mock implementation of handler.StatusProvider.
type MockStatusProvider struct {
	mock.Mock
}

func (m *MockStatusProvider) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockStatusProvider) Status() domain.RunStatus {
	args := m.Called()
	return args.Get(0).(domain.RunStatus)
}
