package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRegistrar struct{}

func (echoRegistrar) RegisterRoutes(r chi.Router) {
	r.Get("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("echo"))
	})
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      slog.New(slog.NewTextHandler(io.Discard, nil)),
		DrainDuration:            10 * time.Millisecond,
		GracefulShutdownDuration: time.Second,
	}

	srv, err := New(cfg, echoRegistrar{})
	require.NoError(t, err)
	return srv
}

func TestServer_MountsHandlerRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.getRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/echo", nil))

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "echo", string(body))
}

func TestServer_Liveness(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.getRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestServer_DrainUndrain(t *testing.T) {
	srv := newTestServer(t)
	router := srv.getRouter()

	// Ready at start.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	// Drain flips readiness.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/drain", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode)

	// Undrain restores it.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/undrain", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestServer_PprofDisabledByDefault(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.getRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}
