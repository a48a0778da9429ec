// Package sourcify provides a client for the Sourcify contract verification
// lookup.
package sourcify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"safescan/pkg/serrors"
)

// DefaultBaseURL is the public Sourcify server endpoint.
const DefaultBaseURL = "https://sourcify.dev/server"

// Client talks to the Sourcify verification API. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New constructs a Client. baseURL falls back to DefaultBaseURL when empty.
func New(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// VerificationStatus reports whether the contract's source is verified on
// Sourcify for the given chain. Both full and partial matches count.
func (c *Client) VerificationStatus(ctx context.Context, address, chainID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/check-by-addresses?addresses=%s&chainIds=%s",
		c.baseURL, url.QueryEscape(address), url.QueryEscape(chainID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, serrors.Wrap(serrors.ErrUnavailable, err, "could not create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, serrors.Wrap(serrors.ErrUnavailable, err, "sourcify request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, serrors.With(serrors.ErrUnavailable, "sourcify returned status %d", resp.StatusCode)
	}

	var out []struct {
		Address string `json:"address"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return false, serrors.Wrap(serrors.ErrUnavailable, err, "could not decode response")
	}

	for _, entry := range out {
		if strings.EqualFold(entry.Address, address) {
			return entry.Status == "perfect" || entry.Status == "partial", nil
		}
	}

	return false, nil
}
