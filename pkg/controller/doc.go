// Package controller contains HTTP middleware and small handler utilities
// shared by the API server: request-scoped logging, CORS, client identity
// derivation and the pprof mux.
package controller
