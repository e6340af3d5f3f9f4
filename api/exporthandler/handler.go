package exporthandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ulvesked/rsahelper/api"
	"github.com/ulvesked/rsahelper/interfaces"
	"github.com/ulvesked/rsahelper/keystore"
	"github.com/ulvesked/rsahelper/metrics"
)

// maxImportBodySize bounds import request bodies; PEM for even a
// 16384-bit key is far below this.
const maxImportBodySize = 1 << 20

// pemContentType is the conventional media type for PEM files.
const pemContentType = "application/x-pem-file"

// KeyGenerator is implemented by key stores that can create new key
// pairs; hardware-backed stores that only expose pre-provisioned keys
// do not have to.
type KeyGenerator interface {
	Generate(ctx context.Context, tag interfaces.KeyTag, bits int) (interfaces.KeyInfo, error)
}

// Handler processes HTTP requests for the key export service. It
// combines the key store collaborator, the export pipeline and the
// artifact archive.
type Handler struct {
	store    interfaces.KeyStore
	exporter *keystore.Exporter
	archive  interfaces.StorageBackend
	log      *slog.Logger
}

// NewHandler creates a new HTTP request handler for the export service.
//
// Parameters:
//   - store: key store collaborator holding raw key material
//   - exporter: export pipeline producing DER/PEM from raw key bytes
//   - archive: content-addressed backend for exported artifacts; may be
//     nil, in which case the archive endpoints report unavailability
//   - log: structured logger for operational insights
func NewHandler(store interfaces.KeyStore, exporter *keystore.Exporter, archive interfaces.StorageBackend, log *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		exporter: exporter,
		archive:  archive,
		log:      log,
	}
}

// RegisterRoutes configures the HTTP router with export service endpoints:
//   - POST   /api/keys/{key_tag}/generate - create a new RSA key pair
//   - GET    /api/keys/{key_tag}/public.pem - export the public key as PEM
//   - GET    /api/keys/{key_tag}/authorized_key - export as OpenSSH line
//   - PUT    /api/keys/{key_tag} - import a PEM public key
//   - GET    /api/keys/{key_tag} - key metadata
//   - DELETE /api/keys/{key_tag} - delete the key
//   - POST   /api/artifacts/{key_tag} - export and archive
//   - GET    /api/artifacts/{content_id} - fetch an archived artifact
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/keys/{key_tag}/generate", h.HandleGenerate)
	r.Get("/api/keys/{key_tag}/public.pem", h.HandleExportPublicPEM)
	r.Get("/api/keys/{key_tag}/authorized_key", h.HandleExportAuthorizedKey)
	r.Put("/api/keys/{key_tag}", h.HandleImport)
	r.Get("/api/keys/{key_tag}", h.HandleLookup)
	r.Delete("/api/keys/{key_tag}", h.HandleDelete)
	r.Post("/api/artifacts/{key_tag}", h.HandleArchive)
	r.Get("/api/artifacts/{content_id}", h.HandleFetchArtifact)
}

// HandleGenerate creates a new RSA key pair under the tag.
//
// Request: JSON-encoded api.GenerateRequest (optional; bits default to 2048).
//
// Status codes:
//   - 200 OK: key created, api.KeyResponse returned
//   - 400 Bad Request: invalid tag or request body
//   - 409 Conflict: tag already occupied
//   - 501 Not Implemented: the key store cannot generate keys
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	tag, err := interfaces.NewKeyTag(r.PathValue("key_tag"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	generator, ok := h.store.(KeyGenerator)
	if !ok {
		h.writeError(w, http.StatusNotImplemented, fmt.Errorf("key store cannot generate keys"))
		return
	}

	req := api.GenerateRequest{Bits: 2048}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
		if req.Bits == 0 {
			req.Bits = 2048
		}
	}

	info, err := generator.Generate(r.Context(), tag, req.Bits)
	if err != nil {
		h.log.Error("Failed to generate key", "err", err, "tag", tag.String())
		h.writeError(w, statusFor(err), fmt.Errorf("failed to generate key: %w", err))
		return
	}

	metrics.KeysGenerated.Inc()
	h.log.Info("Generated key", slog.String("tag", tag.String()), slog.Int("bits", info.Bits))
	h.writeJSON(w, api.KeyResponse{KeyInfo: info})
}

// HandleExportPublicPEM exports the public key under the tag as PEM text.
//
// Status codes:
//   - 200 OK: PEM text returned with the application/x-pem-file media type
//   - 400 Bad Request: invalid tag
//   - 404 Not Found: no key material under the tag
func (h *Handler) HandleExportPublicPEM(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tag, err := interfaces.NewKeyTag(r.PathValue("key_tag"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	pubPEM, err := h.exporter.ExportPublicKeyPEM(r.Context(), tag)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("pem", "error").Inc()
		h.log.Error("Failed to export public key", "err", err, "tag", tag.String())
		h.writeError(w, statusFor(err), err)
		return
	}

	metrics.ExportsTotal.WithLabelValues("pem", "ok").Inc()
	metrics.ExportDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", pemContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(pubPEM)
}

// HandleExportAuthorizedKey exports the public key under the tag as a
// single OpenSSH authorized_keys line.
func (h *Handler) HandleExportAuthorizedKey(w http.ResponseWriter, r *http.Request) {
	tag, err := interfaces.NewKeyTag(r.PathValue("key_tag"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	line, err := h.exporter.ExportAuthorizedKey(r.Context(), tag)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("authorized_key", "error").Inc()
		h.log.Error("Failed to export authorized key", "err", err, "tag", tag.String())
		h.writeError(w, statusFor(err), err)
		return
	}

	metrics.ExportsTotal.WithLabelValues("authorized_key", "ok").Inc()
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, line)
}

// HandleImport stores a PEM public key from the request body under the tag.
//
// Status codes:
//   - 200 OK: key imported, api.KeyResponse returned
//   - 400 Bad Request: invalid tag or PEM
//   - 409 Conflict: tag already occupied
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	tag, err := interfaces.NewKeyTag(r.PathValue("key_tag"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBodySize))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
		return
	}

	pubPEM, err := interfaces.NewPublicKeyPEM(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.store.ImportPublicKey(r.Context(), tag, pubPEM); err != nil {
		h.log.Error("Failed to import key", "err", err, "tag", tag.String())
		h.writeError(w, statusFor(err), err)
		return
	}

	info, err := h.store.Lookup(r.Context(), tag)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.KeysImported.Inc()
	h.log.Info("Imported key", slog.String("tag", tag.String()), slog.Int("bits", info.Bits))
	h.writeJSON(w, api.KeyResponse{KeyInfo: info})
}

// HandleLookup returns metadata for the key under the tag.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	tag, err := interfaces.NewKeyTag(r.PathValue("key_tag"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	info, err := h.store.Lookup(r.Context(), tag)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	h.writeJSON(w, api.KeyResponse{KeyInfo: info})
}

// HandleDelete removes the key under the tag.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	tag, err := interfaces.NewKeyTag(r.PathValue("key_tag"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.store.Delete(r.Context(), tag); err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	h.log.Info("Deleted key", slog.String("tag", tag.String()))
	w.WriteHeader(http.StatusNoContent)
}

// HandleArchive exports the key under the tag and stores the PEM text
// in the artifact archive.
//
// Request: JSON-encoded api.ArchiveRequest (optional; type defaults to
// "public").
//
// Status codes:
//   - 200 OK: artifact archived, api.ArchiveResponse returned
//   - 400 Bad Request: invalid tag or artifact type
//   - 404 Not Found: no key material under the tag
//   - 503 Service Unavailable: no archive backend configured or reachable
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	tag, err := interfaces.NewKeyTag(r.PathValue("key_tag"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if h.archive == nil {
		h.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("no artifact archive configured"))
		return
	}

	req := api.ArchiveRequest{Type: "public"}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
		if req.Type == "" {
			req.Type = "public"
		}
	}

	var artifactType interfaces.ArtifactType
	var pemText []byte
	switch req.Type {
	case "public":
		artifactType = interfaces.PublicKeyArtifact
		pubPEM, err := h.exporter.ExportPublicKeyPEM(r.Context(), tag)
		if err != nil {
			h.writeError(w, statusFor(err), err)
			return
		}
		pemText = pubPEM
	case "private":
		artifactType = interfaces.PrivateKeyArtifact
		privPEM, err := h.exporter.ExportPrivateKeyPEM(r.Context(), tag)
		if err != nil {
			h.writeError(w, statusFor(err), err)
			return
		}
		pemText = privPEM
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid artifact type: %s", req.Type))
		return
	}

	id, err := h.archive.Store(r.Context(), pemText, artifactType)
	if err != nil {
		h.log.Error("Failed to archive artifact", "err", err, "tag", tag.String())
		h.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("failed to archive artifact: %w", err))
		return
	}

	metrics.ArtifactsArchived.Inc()
	h.log.Info("Archived artifact",
		slog.String("tag", tag.String()),
		slog.String("content_id", id.String()),
		slog.String("type", artifactType.String()))

	h.writeJSON(w, api.ArchiveResponse{
		ContentID: id.String(),
		Location:  h.archive.LocationURI(),
	})
}

// HandleFetchArtifact returns an archived artifact by content ID. The
// artifact type is selected with the "type" query parameter and
// defaults to "public".
func (h *Handler) HandleFetchArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := interfaces.NewContentIDFromHex(r.PathValue("content_id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if h.archive == nil {
		h.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("no artifact archive configured"))
		return
	}

	artifactType := interfaces.PublicKeyArtifact
	if r.URL.Query().Get("type") == "private" {
		artifactType = interfaces.PrivateKeyArtifact
	}

	data, err := h.archive.Fetch(r.Context(), id, artifactType)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", pemContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// statusFor maps sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrKeyNotFound), errors.Is(err, interfaces.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, interfaces.ErrKeyExists):
		return http.StatusConflict
	case errors.Is(err, interfaces.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: err.Error()})
}
