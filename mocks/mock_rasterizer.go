package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
)

// MockRasterizer is a mock implementation of port.Rasterizer.
type MockRasterizer struct {
	mock.Mock
}

func (m *MockRasterizer) Rasterize(ctx context.Context, pdf []byte) ([]domain.PageImage, error) {
	args := m.Called(ctx, pdf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PageImage), args.Error(1)
}
