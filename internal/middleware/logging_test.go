package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_StageRouteCarriesScanID(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	r := chi.NewRouter()
	r.Use(LoggingMiddleware)
	r.Post("/v1/scans/{id}/detection", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/scans/scan-42/detection", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	line := buf.String()
	require.Contains(t, line, "status=202")
	require.Contains(t, line, "bytes=2")
	require.Contains(t, line, "scan=scan-42")
}

func TestLoggingMiddleware_PlainRouteHasNoSubject(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	r := chi.NewRouter()
	r.Use(LoggingMiddleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	line := buf.String()
	require.Contains(t, line, "status=200")
	require.NotContains(t, line, "scan=")
}
