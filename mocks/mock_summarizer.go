package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
)

// MockSummarizer is a mock implementation of port.Summarizer.
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (*domain.Summary, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}
