package dexscreener_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"safescan/pkg/serrors"
	"safescan/pkg/signals/dexscreener"

	"github.com/stretchr/testify/require"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *dexscreener.Client {
	return dexscreener.New(&http.Client{Transport: fn}, "")
}

func TestPairsFor_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/latest/dex/tokens/0xabc", r.URL.Path)

		return &http.Response{
			StatusCode: http.StatusOK,
			Body: io.NopCloser(strings.NewReader(`{
				"pairs": [{
					"chainId": "ethereum",
					"dexId": "uniswap",
					"pairAddress": "0xpair",
					"liquidity": {"usd": 125000.5},
					"volume": {"h24": 40000},
					"priceChange": {"h24": -3.2},
					"fdv": 9000000,
					"pairCreatedAt": 1700000000000
				}]
			}`)),
		}, nil
	})

	pairs, err := c.PairsFor(context.Background(), "0xabc")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Equal(t, "uniswap", pairs[0].DexID)
	require.InDelta(t, 125000.5, pairs[0].Liquidity.USD, 1e-9)
	require.InDelta(t, 9000000, pairs[0].FDV, 1e-9)
}

func TestPairsFor_noPairs(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"pairs": null}`)),
		}, nil
	})

	pairs, err := c.PairsFor(context.Background(), "0xabc")
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestPairsFor_unavailable(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("timeout")
	})

	_, err := c.PairsFor(context.Background(), "0xabc")
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestPair_AgeHours(t *testing.T) {
	now := time.UnixMilli(1700000000000).Add(48 * time.Hour)
	p := dexscreener.Pair{PairCreatedAt: 1700000000000}

	require.InDelta(t, 48, p.AgeHours(now), 1e-9)
	require.Zero(t, dexscreener.Pair{}.AgeHours(now))
}
