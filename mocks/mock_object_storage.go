package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// MockObjectStorage is a mock implementation of port.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) List(ctx context.Context, prefix string) ([]domain.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObjectInfo), args.Error(1)
}

func (m *MockObjectStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStorage) Upload(ctx context.Context, input port.UploadInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
