package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/ulvesked/rsahelper/interfaces"
)

// IPFSBackend implements an artifact archive using the InterPlanetary
// File System. IPFS addresses content by its own CID, so the backend
// keeps a mapping from SHA-256 content IDs to the CIDs returned on
// store; only artifacts stored through this backend instance can be
// fetched back from it.
type IPFSBackend struct {
	shell       *shell.Shell
	host        string
	port        string
	log         *slog.Logger
	locationURI string

	mu   sync.RWMutex
	cids map[interfaces.ContentID]string
}

// NewIPFSBackend creates a new IPFS storage backend connected to the
// IPFS API at the specified host and port.
func NewIPFSBackend(host, port string, log *slog.Logger) (*IPFSBackend, error) {
	apiURL := fmt.Sprintf("%s:%s", host, port)

	return &IPFSBackend{
		shell:       shell.NewShell(apiURL),
		host:        host,
		port:        port,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s/", apiURL),
		cids:        make(map[interfaces.ContentID]string),
	}, nil
}

// Fetch retrieves an artifact from IPFS by its content identifier.
// Returns ErrContentNotFound if the content ID is unknown to this
// backend, or ErrBackendUnavailable if the node is not accessible.
func (b *IPFSBackend) Fetch(ctx context.Context, id interfaces.ContentID, artifactType interfaces.ArtifactType) ([]byte, error) {
	start := time.Now()
	contentIDStr := id.String()

	b.mu.RLock()
	cid, ok := b.cids[id]
	b.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrContentNotFound
	}

	if !b.shell.IsUp() {
		b.log.Warn("IPFS node unavailable",
			slog.String("host", b.host),
			slog.String("port", b.port))
		return nil, interfaces.ErrBackendUnavailable
	}

	reader, err := b.shell.Cat("/ipfs/" + cid)
	if err != nil {
		b.log.Error("Failed to fetch data from IPFS",
			slog.String("cid", cid),
			slog.String("content_id", contentIDStr),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to fetch data from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data from IPFS: %w", err)
	}

	b.log.Debug("Fetched artifact from IPFS",
		slog.String("cid", cid),
		slog.String("content_id", contentIDStr),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Store adds an artifact to IPFS and returns its content identifier,
// the SHA-256 hash of the data. Returns ErrBackendUnavailable if the
// IPFS node is not accessible.
func (b *IPFSBackend) Store(ctx context.Context, data []byte, artifactType interfaces.ArtifactType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)

	if !b.shell.IsUp() {
		return id, interfaces.ErrBackendUnavailable
	}

	cid, err := b.shell.Add(bytes.NewReader(data))
	if err != nil {
		return id, fmt.Errorf("failed to add data to IPFS: %w", err)
	}

	b.mu.Lock()
	b.cids[id] = cid
	b.mu.Unlock()

	b.log.Debug("Stored artifact in IPFS",
		slog.String("ipfsCID", cid),
		slog.String("contentID", id.String()),
		slog.String("artifactType", artifactType.String()))

	return id, nil
}

// Available checks if the IPFS node is accessible.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this storage backend.
func (b *IPFSBackend) Name() string {
	return fmt.Sprintf("ipfs-%s-%s", b.host, b.port)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *IPFSBackend) LocationURI() string {
	return b.locationURI
}
