package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ulvesked/rsahelper/interfaces"
)

// FileBackend implements an artifact archive using the local file
// system. Artifacts are stored in a directory structure organized by
// artifact type.
type FileBackend struct {
	baseDir     string
	prefixes    map[interfaces.ArtifactType]string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a new file storage backend using the specified base directory.
// It creates subdirectories for the artifact types if they don't exist.
func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	prefixes := map[interfaces.ArtifactType]string{
		interfaces.PublicKeyArtifact:  "public",
		interfaces.PrivateKeyArtifact: "private",
	}
	for _, subdir := range prefixes {
		if err := os.MkdirAll(filepath.Join(baseDir, subdir), 0700); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
		}
	}

	return &FileBackend{
		baseDir:     baseDir,
		prefixes:    prefixes,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Fetch retrieves an artifact by its content identifier and type.
// Returns ErrContentNotFound if the file doesn't exist.
func (b *FileBackend) Fetch(ctx context.Context, id interfaces.ContentID, artifactType interfaces.ArtifactType) ([]byte, error) {
	filePath := b.getFilePath(id, artifactType)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, interfaces.ErrContentNotFound
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	b.log.Debug("Fetched artifact from file",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return data, nil
}

// Store saves an artifact to the file system and returns its content
// identifier, the SHA-256 hash of the data.
func (b *FileBackend) Store(ctx context.Context, data []byte, artifactType interfaces.ArtifactType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	filePath := b.getFilePath(id, artifactType)

	mode := os.FileMode(0644)
	if artifactType == interfaces.PrivateKeyArtifact {
		mode = 0600
	}

	if err := os.WriteFile(filePath, data, mode); err != nil {
		return id, fmt.Errorf("failed to write file: %w", err)
	}

	b.log.Debug("Stored artifact in file",
		slog.String("path", filePath),
		slog.String("contentID", id.String()))

	return id, nil
}

// Available checks if the file backend is accessible by verifying the base directory exists.
func (b *FileBackend) Available(ctx context.Context) bool {
	_, err := os.Stat(b.baseDir)
	if err != nil {
		b.log.Debug("File backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *FileBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.baseDir))
}

// LocationURI returns the URI that identifies this storage backend.
func (b *FileBackend) LocationURI() string {
	return b.locationURI
}

func (b *FileBackend) getFilePath(id interfaces.ContentID, artifactType interfaces.ArtifactType) string {
	return filepath.Join(b.baseDir, b.prefixes[artifactType], id.String())
}
