package v1handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"safescan/pkg/controller"
	"safescan/pkg/domain"
	"safescan/pkg/logger"
	"safescan/pkg/metrics"
)

// maxBodyBytes bounds the request body well above any valid input length.
const maxBodyBytes = 64 << 10

const (
	msgInvalidInput  = "please provide a valid input to scan"
	msgRateLimited   = "too many requests, please slow down"
	msgInternalError = "an unexpected error occurred"
)

// ScanRequest is the v1 scan request body.
type ScanRequest struct {
	// Input is the string to analyze.
	Input string `json:"input"`
	// Type optionally forces token treatment of an EVM address.
	Type string `json:"type,omitempty"`
}

// Scan handles POST /v1/scan. The rate limiter runs before the body is read
// so rejected clients cost nothing beyond a header lookup. Input values are
// never logged and never echoed inside error messages.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(r.Context(), "scan handler panic", zap.Any("panic", rec))
			writeError(w, http.StatusInternalServerError, msgInternalError)
		}
	}()

	if h.deps.Limiter.IsRateLimited(controller.ClientID(r)) {
		metrics.RateLimited.Inc()
		writeError(w, http.StatusTooManyRequests, msgRateLimited)

		return
	}

	var req ScanRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)

		return
	}

	if strings.TrimSpace(req.Input) == "" {
		writeError(w, http.StatusBadRequest, msgInvalidInput)

		return
	}
	if len(req.Input) > h.opts.MaxInputLength {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("input must not exceed %d characters", h.opts.MaxInputLength))

		return
	}

	var hint domain.InputType
	if req.Type == string(domain.InputTypeToken) {
		hint = domain.InputTypeToken
	}

	report, err := h.deps.Scanner.Scan(r.Context(), req.Input, hint)
	if err != nil {
		logger.Error(r.Context(), "scan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternalError)

		return
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
