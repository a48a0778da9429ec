package v1handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"safescan/internal/api/handler/v1handler"
	"safescan/internal/ratelimit"
	"safescan/pkg/domain"
)

type fakeScanner struct {
	calls  int
	report *domain.SafetyReport
	err    error

	lastInput string
	lastHint  domain.InputType
}

func (f *fakeScanner) Scan(_ context.Context, input string, hint domain.InputType) (*domain.SafetyReport, error) {
	f.calls++
	f.lastInput = input
	f.lastHint = hint

	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report, nil
	}

	return &domain.SafetyReport{
		InputType:  domain.InputTypeWallet,
		InputValue: input,
		RiskLevel:  domain.RiskLevelSafe,
		Confidence: domain.ConfidenceHigh,
		Timestamp:  time.Now().UTC(),
	}, nil
}

func newTestRouter(scanner *fakeScanner, limiter *ratelimit.Limiter) http.Handler {
	if limiter == nil {
		limiter = ratelimit.New(ratelimit.Options{
			Window:          time.Minute,
			MaxRequests:     30,
			CleanupInterval: 2 * time.Minute,
			MaxClients:      100,
		})
	}

	h := v1handler.New(
		v1handler.Deps{Scanner: scanner, Limiter: limiter},
		v1handler.Options{MaxInputLength: 2000},
	)

	r := chi.NewRouter()
	r.Route("/v1", h.Routes)

	return r
}

func postScan(t *testing.T, router http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/scan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestScan_OK(t *testing.T) {
	scanner := &fakeScanner{}
	router := newTestRouter(scanner, nil)

	rec := postScan(t, router, `{"input":"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, scanner.calls)
	require.Equal(t, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", scanner.lastInput)
	require.Equal(t, domain.InputType(""), scanner.lastHint)

	var report domain.SafetyReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, domain.InputTypeWallet, report.InputType)
}

func TestScan_TokenHint(t *testing.T) {
	scanner := &fakeScanner{}
	router := newTestRouter(scanner, nil)

	rec := postScan(t, router, `{"input":"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045","type":"token"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.InputTypeToken, scanner.lastHint)
}

func TestScan_EmptyInput(t *testing.T) {
	scanner := &fakeScanner{}
	router := newTestRouter(scanner, nil)

	for _, body := range []string{`{}`, `{"input":""}`, `{"input":"   "}`} {
		rec := postScan(t, router, body, nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "valid input")
	}
	require.Zero(t, scanner.calls)
}

func TestScan_MalformedJSON(t *testing.T) {
	scanner := &fakeScanner{}
	router := newTestRouter(scanner, nil)

	rec := postScan(t, router, `{"input":`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, scanner.calls)
}

func TestScan_InputTooLong(t *testing.T) {
	scanner := &fakeScanner{}
	router := newTestRouter(scanner, nil)

	long := strings.Repeat("a", 2001)
	rec := postScan(t, router, `{"input":"`+long+`"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "2000")
	require.Zero(t, scanner.calls)
}

func TestScan_InputAtMaxLength(t *testing.T) {
	scanner := &fakeScanner{}
	router := newTestRouter(scanner, nil)

	// exactly at the limit is accepted
	exact := strings.Repeat("a", 2000)
	rec := postScan(t, router, `{"input":"`+exact+`"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, scanner.calls)
	require.Len(t, scanner.lastInput, 2000)
}

func TestScan_RateLimited(t *testing.T) {
	scanner := &fakeScanner{}
	limiter := ratelimit.New(ratelimit.Options{
		Window:          time.Minute,
		MaxRequests:     1,
		CleanupInterval: 2 * time.Minute,
		MaxClients:      100,
	})
	router := newTestRouter(scanner, limiter)
	headers := map[string]string{"X-Forwarded-For": "1.2.3.4"}

	first := postScan(t, router, `{"input":"vitalik.eth"}`, headers)
	require.Equal(t, http.StatusOK, first.Code)

	second := postScan(t, router, `{"input":"vitalik.eth"}`, headers)
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	// the scanner must not run for a rejected request
	require.Equal(t, 1, scanner.calls)

	// a different client still gets through
	third := postScan(t, router, `{"input":"vitalik.eth"}`,
		map[string]string{"X-Forwarded-For": "5.6.7.8"})
	require.Equal(t, http.StatusOK, third.Code)
}

func TestScan_ScannerError(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("sensitive detail: upstream token abc123")}
	router := newTestRouter(scanner, nil)

	rec := postScan(t, router, `{"input":"vitalik.eth"}`, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "unexpected error")
	require.NotContains(t, rec.Body.String(), "abc123")
	require.NotContains(t, rec.Body.String(), "vitalik.eth")
}
