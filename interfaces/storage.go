package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrContentNotFound is returned when requested content cannot be found in the storage backend.
	ErrContentNotFound = errors.New("content not found")

	// ErrBackendUnavailable is returned when a storage backend is not accessible.
	// This could be due to network issues, authentication failures, or service outages.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidLocationURI is returned when a storage location URI is malformed or unsupported.
	// URIs must follow the format: [scheme]://[auth@]host[:port][/path][?params]
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)

// StorageBackend provides content-addressed storage for exported key artifacts.
type StorageBackend interface {
	// Fetch retrieves data by content ID and artifact type.
	Fetch(ctx context.Context, id ContentID, artifactType ArtifactType) ([]byte, error)

	// Store saves data and returns its content ID.
	Store(ctx context.Context, data []byte, artifactType ArtifactType) (ContentID, error)

	// Available checks if the backend is accessible.
	Available(ctx context.Context) bool

	// Name returns a unique identifier for this storage backend.
	Name() string

	// LocationURI returns the URI that identifies this storage backend.
	LocationURI() string
}
