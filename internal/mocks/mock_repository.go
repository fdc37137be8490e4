package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockImageRepository) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, image, ttl)
	return args.Error(0)
}

func (m *MockImageRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockRasterizer struct {
	mock.Mock
}

func (m *MockRasterizer) Render(ctx context.Context, payload string) ([]byte, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
