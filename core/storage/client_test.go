package storage_test

import (
	"context"
	"errors"
	"testing"

	"loan-sync/core/storage"
	"loan-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"ValidConfig", storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "loans", Region: "us-east-1"}},
		{"EndpointWithHTTP", storage.Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"}},
		{"EndpointWithHTTPS", storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "k", SecretKey: "s", UseSSL: true, Region: "us-east-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "loans").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "loans", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "loans").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "loans", minio.MakeBucketOptions{Region: "eu"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "loans", "eu"))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "loans").Return(false, errors.New("denied"))

		err := storage.EnsureBucket(ctx, client, "loans", "")
		assert.EqualError(t, err, "failed to check bucket loans: denied")
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, storage.IsNotFound(errors.New("other")))
}
