package mocks

import (
	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
)

// MockRenderer is a mock implementation of port.Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(markdown string, cfg domain.RenderConfig) ([]byte, error) {
	args := m.Called(markdown, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
