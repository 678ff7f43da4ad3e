package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vonatinfo/core/storage"
	"vonatinfo/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "eu-central-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{Endpoint: "http://localhost:9000"})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{Endpoint: "https://s3.amazonaws.com", UseSSL: true})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "roster").Return(true, nil).Once()

		err := storage.EnsureBucket(context.Background(), m, "roster", "", time.Second)
		assert.NoError(t, err)
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CreatesMissing", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "roster").Return(false, nil).Once()
		m.On("MakeBucket", mock.Anything, "roster", minio.MakeBucketOptions{Region: "eu"}).Return(nil).Once()

		err := storage.EnsureBucket(context.Background(), m, "roster", "eu", time.Second)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("RetriesTransientFailure", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "roster").Return(false, errors.New("connection refused")).Once()
		m.On("BucketExists", mock.Anything, "roster").Return(true, nil).Once()

		err := storage.EnsureBucket(context.Background(), m, "roster", "", 5*time.Second)
		assert.NoError(t, err)
		m.AssertNumberOfCalls(t, "BucketExists", 2)
	})

	t.Run("GivesUp", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "roster").Return(false, errors.New("down"))

		err := storage.EnsureBucket(context.Background(), m, "roster", "", 300*time.Millisecond)
		assert.ErrorContains(t, err, "down")
	})
}
