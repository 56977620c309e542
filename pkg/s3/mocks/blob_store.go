package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, contentType, data)

	return args.String(0), args.Error(1)
}

func (m *BlobStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)

	return args.Error(0)
}

func (m *BlobStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
