package goplus_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"safescan/pkg/serrors"
	"safescan/pkg/signals/goplus"

	"github.com/stretchr/testify/require"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *goplus.Client {
	return goplus.New(&http.Client{Transport: fn}, "")
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const tokenAddr = "0xDEAD00000000000000000000000000000000beef"

func TestTokenSecurity_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/token_security/1", r.URL.Path)
		require.Equal(t, tokenAddr, r.URL.Query().Get("contract_addresses"))

		return jsonResponse(http.StatusOK, `{
			"code": 1,
			"result": {
				"0xdead00000000000000000000000000000000beef": {
					"is_honeypot": "1",
					"is_open_source": "0",
					"is_mintable": "1",
					"buy_tax": "0.05",
					"sell_tax": "0.12",
					"hidden_owner": "0",
					"owner_address": "0xabc",
					"holder_count": "1543"
				}
			}
		}`), nil
	})

	sec, err := c.TokenSecurity(context.Background(), "1", tokenAddr)
	require.NoError(t, err)
	require.NotNil(t, sec.IsHoneypot)
	require.True(t, *sec.IsHoneypot)
	require.False(t, *sec.IsOpenSource)
	require.InDelta(t, 5.0, *sec.BuyTaxPercent, 1e-9)
	require.InDelta(t, 12.0, *sec.SellTaxPercent, 1e-9)
	require.Equal(t, 1543, *sec.HolderCount)
	require.Equal(t, "0xabc", sec.OwnerAddress)
	// fields absent upstream stay nil
	require.Nil(t, sec.IsProxy)
	require.Nil(t, sec.CanSelfDestruct)
}

func TestTokenSecurity_upstreamError(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "upstream down"), nil
	})

	_, err := c.TokenSecurity(context.Background(), "1", tokenAddr)
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestTokenSecurity_transportError(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.TokenSecurity(context.Background(), "1", tokenAddr)
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestTokenSecurity_missingAddress(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"code": 1, "result": {}}`), nil
	})

	_, err := c.TokenSecurity(context.Background(), "1", tokenAddr)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestAddressFlags_collectsRaisedFlags(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Contains(t, r.URL.Path, "/api/v1/address_security/")
		require.Equal(t, "56", r.URL.Query().Get("chain_id"))

		return jsonResponse(http.StatusOK, `{
			"code": 1,
			"result": {
				"honeypot_related_address": "1",
				"phishing_activities": "0",
				"blacklist_doubt": "1",
				"data_source": "goplus",
				"cybercrime": "0"
			}
		}`), nil
	})

	flags, err := c.AddressFlags(context.Background(), "56", tokenAddr)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"honeypot_related_address", "blacklist_doubt"}, flags)
}

func TestAddressFlags_cleanAddress(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"code": 1, "result": {"phishing_activities": "0"}}`), nil
	})

	flags, err := c.AddressFlags(context.Background(), "1", tokenAddr)
	require.NoError(t, err)
	require.Empty(t, flags)
}

func TestPhishingSite(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/v1/phishing_site", r.URL.Path)
		require.Equal(t, "https://evil.example", r.URL.Query().Get("url"))

		return jsonResponse(http.StatusOK, `{"code": 1, "result": {"phishing_site": 1}}`), nil
	})

	hit, err := c.PhishingSite(context.Background(), "https://evil.example")
	require.NoError(t, err)
	require.True(t, hit)
}

func TestSolanaTokenSecurity(t *testing.T) {
	mint := "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/v1/solana/token_security", r.URL.Path)

		return jsonResponse(http.StatusOK, `{
			"code": 1,
			"result": {
				"`+mint+`": {
					"mintable": {"status": "0"},
					"freezable": {"status": "1"}
				}
			}
		}`), nil
	})

	sec, err := c.SolanaTokenSecurity(context.Background(), mint)
	require.NoError(t, err)
	require.False(t, *sec.Mintable)
	require.True(t, *sec.Freezable)
}
