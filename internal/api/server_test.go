package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"safescan/internal/api"
	"safescan/internal/api/handler/v1handler"
	"safescan/internal/ratelimit"
	"safescan/pkg/domain"
)

type stubScanner struct{}

func (stubScanner) Scan(_ context.Context, input string, _ domain.InputType) (*domain.SafetyReport, error) {
	return &domain.SafetyReport{
		InputType:  domain.InputTypeUnknown,
		InputValue: input,
		RiskLevel:  domain.RiskLevelSafe,
		Timestamp:  time.Now().UTC(),
	}, nil
}

func newTestServer() *http.Server {
	limiter := ratelimit.New(ratelimit.Options{
		Window:          time.Minute,
		MaxRequests:     30,
		CleanupInterval: 2 * time.Minute,
		MaxClients:      100,
	})

	return api.NewServer(
		api.Deps{Deps: v1handler.Deps{Scanner: stubScanner{}, Limiter: limiter}},
		api.Options{
			HandlerOptions: v1handler.Options{MaxInputLength: 2000},
			Addr:           ":0",
			RequestTimeout: 5 * time.Second,
			MetricsPath:    "/metrics",
		},
	)
}

func get(t *testing.T, srv *http.Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	return rec
}

func TestServer_Healthz(t *testing.T) {
	rec := get(t, newTestServer(), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	rec := get(t, newTestServer(), "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServer_Specs(t *testing.T) {
	rec := get(t, newTestServer(), "/specs/v1.yaml")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "openapi")
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/v1/scan", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
