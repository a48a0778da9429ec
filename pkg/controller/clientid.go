package controller

import (
	"net/http"
	"strings"
)

// UnknownClientID is the shared bucket identifier for requests that carry
// neither forwarding header. All such clients share one rate-limit budget.
const UnknownClientID = "unknown"

// ClientID derives the rate-limit identity for a request: the first entry of
// X-Forwarded-For (trimmed), else X-Real-IP, else the unknown sentinel.
// RemoteAddr is deliberately not used so that identity derivation is stable
// behind any proxy topology.
func ClientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// may contain multiple IPs: "client, proxy1, proxy2"
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	return UnknownClientID
}
