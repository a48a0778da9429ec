// Package api configures and exposes the HTTP server, routes, metrics, docs
// and related middleware for the scanning service.
package api

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"

	"safescan/internal/api/handler/v1handler"
	"safescan/internal/config"
	"safescan/pkg/controller"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server. Zero durations fall back
// to the net/http defaults.
type Options struct {
	// HandlerOptions configures request policy for the v1 endpoints.
	HandlerOptions v1handler.Options

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out response writes.
	WriteTimeout time.Duration
	// IdleTimeout is the keep-alive idle bound.
	IdleTimeout time.Duration
	// RequestTimeout is the global bound applied via http.TimeoutHandler.
	RequestTimeout time.Duration
	// MaxHeaderBytes bounds request header parsing.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions maps HTTP server settings from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		HandlerOptions: v1handler.Options{MaxInputLength: cfg.Scan.MaxInputLength},

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
}

// Deps are the external collaborators the server routes to.
type Deps struct {
	v1handler.Deps
}

// NewServer wires up and returns a configured *http.Server exposing:
//   - POST /v1/scan backed by the scanner
//   - Prometheus metrics at MetricsPath
//   - the embedded OpenAPI spec and a Swagger playground
//   - pprof endpoints and a liveness probe
//
// The router is wrapped with CORS and access-log middleware and the whole
// tree is bounded by a request timeout.
func NewServer(deps Deps, opts Options) *http.Server {
	r := chi.NewRouter()

	// prometheus metrics
	r.Handle(opts.MetricsPath, promhttp.Handler())

	// v1 specs file
	r.Get("/specs/v1.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	r.Handle("/v1/docs/*", v5emb.New(
		"Crypto Input Safety Scanner",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	// v1 api
	h := v1handler.New(deps.Deps, opts.HandlerOptions)
	r.Route("/v1", h.Routes)

	// pprof
	r.Handle("/debug/pprof/*", http.StripPrefix("/debug/pprof", controller.PprofMux()))

	// liveness
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// cors
	handler := controller.WithCORS(r)

	// logger
	handler = controller.WithLogger(handler)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           http.TimeoutHandler(handler, opts.RequestTimeout, `{"error":"request timed out"}`),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}
}
