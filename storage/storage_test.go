package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ulvesked/rsahelper/interfaces"
)

// MockStorageBackend implements interfaces.StorageBackend for testing
type MockStorageBackend struct {
	mock.Mock
	name string
}

func (m *MockStorageBackend) Fetch(ctx context.Context, id interfaces.ContentID, artifactType interfaces.ArtifactType) ([]byte, error) {
	args := m.Called(ctx, id, artifactType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorageBackend) Store(ctx context.Context, data []byte, artifactType interfaces.ArtifactType) (interfaces.ContentID, error) {
	args := m.Called(ctx, data, artifactType)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

func (m *MockStorageBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStorageBackend) Name() string {
	return m.name
}

func (m *MockStorageBackend) LocationURI() string {
	return "mock:"
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMultiStorageBackend_Available(t *testing.T) {
	tests := []struct {
		name     string
		backends []bool
		expected bool
	}{
		{
			name:     "all backends available",
			backends: []bool{true, true, true},
			expected: true,
		},
		{
			name:     "some backends available",
			backends: []bool{false, true, false},
			expected: true,
		},
		{
			name:     "no backends available",
			backends: []bool{false, false, false},
			expected: false,
		},
		{
			name:     "no backends",
			backends: []bool{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backends []interfaces.StorageBackend
			for i, available := range tt.backends {
				mockStorage := &MockStorageBackend{name: fmt.Sprintf("mock-A%x", i)}
				mockStorage.On("Available", mock.Anything).Return(available).Maybe()
				backends = append(backends, mockStorage)
			}

			multi := NewMultiStorageBackend(backends, testLogger())
			assert.Equal(t, tt.expected, multi.Available(context.Background()))

			for _, backend := range backends {
				backend.(*MockStorageBackend).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStorageBackend_FetchFallback(t *testing.T) {
	data := []byte("-----BEGIN PUBLIC KEY-----\r\nAAAA\r\n-----END PUBLIC KEY-----")
	id := interfaces.ComputeID(data)

	failing := &MockStorageBackend{name: "failing"}
	failing.On("Available", mock.Anything).Return(true)
	failing.On("Fetch", mock.Anything, id, interfaces.PublicKeyArtifact).
		Return(nil, interfaces.ErrContentNotFound)

	unavailable := &MockStorageBackend{name: "unavailable"}
	unavailable.On("Available", mock.Anything).Return(false)

	healthy := &MockStorageBackend{name: "healthy"}
	healthy.On("Available", mock.Anything).Return(true)
	healthy.On("Fetch", mock.Anything, id, interfaces.PublicKeyArtifact).
		Return(data, nil)

	multi := NewMultiStorageBackend(
		[]interfaces.StorageBackend{failing, unavailable, healthy}, testLogger())

	fetched, err := multi.Fetch(context.Background(), id, interfaces.PublicKeyArtifact)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	failing.AssertExpectations(t)
	unavailable.AssertExpectations(t)
	healthy.AssertExpectations(t)
}

func TestMultiStorageBackend_StoreFansOut(t *testing.T) {
	data := []byte("artifact bytes")
	id := interfaces.ComputeID(data)

	first := &MockStorageBackend{name: "first"}
	first.On("Available", mock.Anything).Return(true)
	first.On("Store", mock.Anything, data, interfaces.PublicKeyArtifact).Return(id, nil)

	second := &MockStorageBackend{name: "second"}
	second.On("Available", mock.Anything).Return(true)
	second.On("Store", mock.Anything, data, interfaces.PublicKeyArtifact).Return(id, nil)

	multi := NewMultiStorageBackend([]interfaces.StorageBackend{first, second}, testLogger())

	stored, err := multi.Store(context.Background(), data, interfaces.PublicKeyArtifact)
	require.NoError(t, err)
	assert.True(t, id.Equal(stored))

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestMultiStorageBackend_StoreAllFail(t *testing.T) {
	data := []byte("artifact bytes")
	id := interfaces.ComputeID(data)

	broken := &MockStorageBackend{name: "broken"}
	broken.On("Available", mock.Anything).Return(true)
	broken.On("Store", mock.Anything, data, interfaces.PublicKeyArtifact).
		Return(id, errors.New("disk full"))

	multi := NewMultiStorageBackend([]interfaces.StorageBackend{broken}, testLogger())

	_, err := multi.Store(context.Background(), data, interfaces.PublicKeyArtifact)
	assert.Error(t, err)
}

func TestFileBackend_StoreAndFetch(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)
	require.True(t, backend.Available(context.Background()))

	data := []byte("-----BEGIN PUBLIC KEY-----\r\nAAAA\r\n-----END PUBLIC KEY-----")

	id, err := backend.Store(context.Background(), data, interfaces.PublicKeyArtifact)
	require.NoError(t, err)
	assert.True(t, interfaces.ComputeID(data).Equal(id))

	fetched, err := backend.Fetch(context.Background(), id, interfaces.PublicKeyArtifact)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	// Artifact types are separate namespaces.
	_, err = backend.Fetch(context.Background(), id, interfaces.PrivateKeyArtifact)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestStorageBackendFactory(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{name: "file scheme", uri: "file://" + t.TempDir()},
		{name: "s3 scheme", uri: "s3://bucket/prefix/?region=eu-west-1"},
		{name: "ipfs scheme", uri: "ipfs://127.0.0.1:5001/"},
		{name: "vault scheme", uri: "vault://127.0.0.1:8200/secret/rsahelper?tls=false"},
		{name: "vault without path", uri: "vault://127.0.0.1:8200/secret", wantErr: true},
		{name: "unsupported scheme", uri: "ftp://example.com/keys", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := factory.StorageBackendFor(interfaces.StorageBackendLocation(tt.uri))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, backend.Name())
			assert.NotEmpty(t, backend.LocationURI())
		})
	}
}

func TestStorageBackendFactory_CreateMultiBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	// Invalid URIs are skipped, valid ones aggregated.
	multi, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{
		"ftp://bad",
		interfaces.StorageBackendLocation("file://" + t.TempDir()),
	})
	require.NoError(t, err)
	assert.Equal(t, "multi-storage", multi.Name())

	_, err = factory.CreateMultiBackend([]interfaces.StorageBackendLocation{"ftp://bad"})
	assert.Error(t, err)
}
