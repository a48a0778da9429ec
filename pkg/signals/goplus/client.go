// Package goplus provides a client for the GoPlus Security REST API: token
// audits, malicious-address flags, Solana token security and the phishing
// site database. Upstream failure is always surfaced as serrors.ErrUnavailable
// so callers can fold it into confidence instead of handling transport errors.
package goplus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"safescan/pkg/serrors"
)

// DefaultBaseURL is the public GoPlus API endpoint.
const DefaultBaseURL = "https://api.gopluslabs.io"

// Client talks to the GoPlus Security API. Safe for concurrent use.
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

// TokenSecurity is the normalized audit result for one EVM token contract.
// Pointer fields are nil when the upstream omitted that axis.
type TokenSecurity struct {
	IsHoneypot         *bool
	IsOpenSource       *bool
	IsMintable         *bool
	BuyTaxPercent      *float64
	SellTaxPercent     *float64
	HiddenOwner        *bool
	IsProxy            *bool
	CanSelfDestruct    *bool
	HasBlacklist       *bool
	TransferPausable   *bool
	SlippageModifiable *bool
	OwnerAddress       string
	HolderCount        *int
}

// rawTokenSecurity mirrors the upstream wire format: booleans are "0"/"1"
// strings and taxes are decimal fractions.
type rawTokenSecurity struct {
	IsHoneypot         string `json:"is_honeypot"`
	IsOpenSource       string `json:"is_open_source"`
	IsMintable         string `json:"is_mintable"`
	BuyTax             string `json:"buy_tax"`
	SellTax            string `json:"sell_tax"`
	HiddenOwner        string `json:"hidden_owner"`
	IsProxy            string `json:"is_proxy"`
	SelfDestruct       string `json:"selfdestruct"`
	IsBlacklisted      string `json:"is_blacklisted"`
	TransferPausable   string `json:"transfer_pausable"`
	SlippageModifiable string `json:"slippage_modifiable"`
	OwnerAddress       string `json:"owner_address"`
	HolderCount        string `json:"holder_count"`
}

// TokenSecurity fetches the GoPlus audit for address on the given chain.
func (c *Client) TokenSecurity(ctx context.Context, chainID, address string) (*TokenSecurity, error) {
	endpoint := fmt.Sprintf("%s/api/v1/token_security/%s?contract_addresses=%s",
		c.baseURL, url.PathEscape(chainID), url.QueryEscape(address))

	var out struct {
		Code   int                         `json:"code"`
		Result map[string]rawTokenSecurity `json:"result"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Code != 1 {
		return nil, serrors.With(serrors.ErrUnavailable, "goplus returned code %d", out.Code)
	}

	raw, ok := out.Result[strings.ToLower(address)]
	if !ok {
		return nil, serrors.With(serrors.ErrNotFound, "no token security data")
	}

	return &TokenSecurity{
		IsHoneypot:         boolFlag(raw.IsHoneypot),
		IsOpenSource:       boolFlag(raw.IsOpenSource),
		IsMintable:         boolFlag(raw.IsMintable),
		BuyTaxPercent:      taxPercent(raw.BuyTax),
		SellTaxPercent:     taxPercent(raw.SellTax),
		HiddenOwner:        boolFlag(raw.HiddenOwner),
		IsProxy:            boolFlag(raw.IsProxy),
		CanSelfDestruct:    boolFlag(raw.SelfDestruct),
		HasBlacklist:       boolFlag(raw.IsBlacklisted),
		TransferPausable:   boolFlag(raw.TransferPausable),
		SlippageModifiable: boolFlag(raw.SlippageModifiable),
		OwnerAddress:       raw.OwnerAddress,
		HolderCount:        intField(raw.HolderCount),
	}, nil
}

// AddressFlags returns the names of the malicious-address flags GoPlus raised
// for address on the given chain. An empty slice means a clean answer.
func (c *Client) AddressFlags(ctx context.Context, chainID, address string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/address_security/%s?chain_id=%s",
		c.baseURL, url.PathEscape(address), url.QueryEscape(chainID))

	var out struct {
		Code   int               `json:"code"`
		Result map[string]string `json:"result"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Code != 1 {
		return nil, serrors.With(serrors.ErrUnavailable, "goplus returned code %d", out.Code)
	}

	flags := make([]string, 0, 4)
	for name, value := range out.Result {
		if name == "data_source" || name == "contract_address" {
			continue
		}
		if value == "1" {
			flags = append(flags, name)
		}
	}

	return flags, nil
}

// SolanaTokenSecurity is the subset of the Solana token audit the scanner
// consumes.
type SolanaTokenSecurity struct {
	// Mintable is true when the mint authority is still enabled.
	Mintable *bool
	// Freezable is true when the freeze authority is still enabled.
	Freezable *bool
}

// SolanaTokenSecurity fetches the Solana SPL token audit for a mint.
func (c *Client) SolanaTokenSecurity(ctx context.Context, mint string) (*SolanaTokenSecurity, error) {
	endpoint := fmt.Sprintf("%s/api/v1/solana/token_security?contract_addresses=%s",
		c.baseURL, url.QueryEscape(mint))

	var out struct {
		Code   int `json:"code"`
		Result map[string]struct {
			Mintable  struct{ Status string } `json:"mintable"`
			Freezable struct{ Status string } `json:"freezable"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Code != 1 {
		return nil, serrors.With(serrors.ErrUnavailable, "goplus returned code %d", out.Code)
	}

	raw, ok := out.Result[mint]
	if !ok {
		return nil, serrors.With(serrors.ErrNotFound, "no solana token data")
	}

	return &SolanaTokenSecurity{
		Mintable:  boolFlag(raw.Mintable.Status),
		Freezable: boolFlag(raw.Freezable.Status),
	}, nil
}

// PhishingSite reports whether the URL is in the GoPlus phishing database.
func (c *Client) PhishingSite(ctx context.Context, target string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/v1/phishing_site?url=%s", c.baseURL, url.QueryEscape(target))

	var out struct {
		Code   int `json:"code"`
		Result struct {
			PhishingSite int `json:"phishing_site"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return false, err
	}
	if out.Code != 1 {
		return false, serrors.With(serrors.ErrUnavailable, "goplus returned code %d", out.Code)
	}

	return out.Result.PhishingSite == 1, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "goplus request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serrors.With(serrors.ErrUnavailable, "goplus returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not decode response")
	}

	return nil
}

func boolFlag(s string) *bool {
	switch s {
	case "1":
		v := true

		return &v
	case "0":
		v := false

		return &v
	default:
		return nil
	}
}

// taxPercent converts an upstream decimal fraction ("0.05") to a percentage.
func taxPercent(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	pct := f * 100

	return &pct
}

func intField(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}

	return &n
}
