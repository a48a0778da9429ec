// Package v1handler implements the version 1 HTTP API: a single scan
// operation plus the request plumbing around it (rate limiting, validation,
// panic containment).
package v1handler

import (
	"github.com/go-chi/chi/v5"

	"safescan/internal/ratelimit"
	"safescan/internal/scan"
)

// Deps are the collaborators the handler needs.
type Deps struct {
	// Scanner performs the actual analysis.
	Scanner scan.Scanner
	// Limiter admits or rejects requests per client identity.
	Limiter *ratelimit.Limiter
}

// Options holds handler-level request policy.
type Options struct {
	// MaxInputLength is the longest accepted input string, in bytes.
	MaxInputLength int
}

// Handler serves the v1 routes.
type Handler struct {
	deps Deps
	opts Options
}

// New constructs a Handler.
func New(deps Deps, opts Options) *Handler {
	return &Handler{deps: deps, opts: opts}
}

// Routes mounts the v1 endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/scan", h.Scan)
}
