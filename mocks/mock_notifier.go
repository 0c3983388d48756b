package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AnalysisReady(ctx context.Context, analysis domain.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}
