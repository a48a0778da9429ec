// Package dexscreener provides a client for the public DexScreener pair
// lookup API. Like every signal client, it never lets a transport error
// escape as anything other than serrors.ErrUnavailable.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"safescan/pkg/serrors"
)

// DefaultBaseURL is the public DexScreener API endpoint.
const DefaultBaseURL = "https://api.dexscreener.com"

// Client talks to the DexScreener API. Safe for concurrent use.
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

// Pair is one trading pair as reported by DexScreener.
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`

	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	FDV float64 `json:"fdv"`

	// PairCreatedAt is a unix timestamp in milliseconds.
	PairCreatedAt int64 `json:"pairCreatedAt"`
}

// AgeHours returns the pair age relative to now.
func (p Pair) AgeHours(now time.Time) float64 {
	if p.PairCreatedAt == 0 {
		return 0
	}

	return now.Sub(time.UnixMilli(p.PairCreatedAt)).Hours()
}

// PairsFor returns all known trading pairs for a token or mint address.
// An empty slice is a valid answer meaning the token has no indexed pairs.
func (c *Client) PairsFor(ctx context.Context, address string) ([]Pair, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, url.PathEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "dexscreener request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrUnavailable, "dexscreener returned status %d", resp.StatusCode)
	}

	var out struct {
		Pairs []Pair `json:"pairs"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not decode response")
	}

	return out.Pairs, nil
}
