// Package urlresolver walks HTTP redirect chains with a bounded hop count
// while refusing to connect to private, reserved or cloud-metadata address
// space. The destination IP is re-resolved and re-checked at dial time for
// every hop, because a DNS answer can change between an upfront check and
// the actual connection.
package urlresolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"time"
)

// ErrorType classifies why a resolution attempt failed.
type ErrorType string

const (
	ErrorTypeTimeout ErrorType = "timeout"
	ErrorTypeDNS     ErrorType = "dns"
	ErrorTypeBlocked ErrorType = "blocked"
	ErrorTypeUnknown ErrorType = "unknown"
)

// Resolution is the outcome of following a URL to its final destination.
type Resolution struct {
	// FinalURL is the last URL that was attempted.
	FinalURL string
	// RedirectCount is the number of redirects that were followed.
	RedirectCount int
	// Reachable is true when a non-redirect response was received.
	Reachable bool
	// StatusCode is the last HTTP status received, when any.
	StatusCode int
	// ErrorType is set when the chain could not be completed.
	ErrorType ErrorType
}

// BlockedError is returned by the guarded dialer when a hop's destination
// resolves into restricted address space.
type BlockedError struct {
	Host string
	Addr netip.Addr
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("connection to %s (%s) blocked: restricted address space", e.Host, e.Addr)
}

// blockedPrefixes extends the stdlib classification helpers with ranges they
// do not cover: the CGNAT block (which hosts several cloud metadata services)
// and the "this network" block.
var blockedPrefixes = []netip.Prefix{ //nolint: gochecknoglobals
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
}

// BlockedAddr reports whether connecting to addr must be refused: loopback,
// link-local (including 169.254.169.254 metadata), private RFC1918/RFC4193,
// multicast, unspecified and the extra prefixes above.
func BlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()

	if addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() ||
		addr.IsPrivate() {
		return true
	}

	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}

	return false
}

// LookupFunc resolves a hostname to its addresses. Injected in tests.
type LookupFunc func(ctx context.Context, host string) ([]netip.Addr, error)

// Options configure the resolver.
type Options struct {
	// MaxRedirects bounds the number of redirects followed per chain.
	MaxRedirects int
	// HopTimeout is the per-hop request timeout.
	HopTimeout time.Duration
}

// Resolver follows redirect chains using a client whose dialer enforces
// BlockedAddr on every connection attempt.
type Resolver struct {
	opts   Options
	client *http.Client
}

// New constructs a Resolver with a guarded transport. lookup may be nil, in
// which case the system resolver is used.
func New(opts Options, lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = func(ctx context.Context, host string) ([]netip.Addr, error) {
			return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		}
	}

	transport := &http.Transport{
		DialContext:       guardedDial(lookup),
		DisableKeepAlives: true,
	}

	return NewWithClient(&http.Client{Transport: transport}, opts)
}

// NewWithClient constructs a Resolver around an existing client. Redirect
// following is always disabled on the client so every hop passes through the
// resolver's own loop.
func NewWithClient(client *http.Client, opts Options) *Resolver {
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Resolver{opts: opts, client: client}
}

// guardedDial resolves the target host and refuses restricted destinations
// immediately before dialing. The approved IP itself is dialed, not the
// hostname, so the checked answer is the one connected to.
func guardedDial(lookup LookupFunc) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("could not split host and port: %w", err)
		}

		var addrs []netip.Addr
		if ip, perr := netip.ParseAddr(host); perr == nil {
			addrs = []netip.Addr{ip}
		} else {
			addrs, err = lookup(ctx, host)
			if err != nil {
				return nil, fmt.Errorf("could not resolve host: %w", err)
			}
		}
		if len(addrs) == 0 {
			return nil, &net.DNSError{Err: "no addresses", Name: host, IsNotFound: true}
		}

		for _, ip := range addrs {
			if BlockedAddr(ip) {
				return nil, &BlockedError{Host: host, Addr: ip}
			}
		}

		return dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0].Unmap().String(), port))
	}
}

// Resolve follows the redirect chain starting at rawURL. It never returns an
// error: failures are folded into Resolution.ErrorType.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) Resolution {
	res := Resolution{FinalURL: rawURL}
	visited := make(map[string]struct{})
	current := rawURL

	for {
		if _, seen := visited[current]; seen {
			// redirect loop
			res.ErrorType = ErrorTypeUnknown

			return res
		}
		if res.RedirectCount > r.opts.MaxRedirects {
			// hop budget exceeded; not a security violation
			res.ErrorType = ErrorTypeUnknown

			return res
		}
		visited[current] = struct{}{}

		resp, err := r.fetch(ctx, current)
		if err != nil {
			res.ErrorType = classifyError(err)

			return res
		}

		res.FinalURL = current
		res.StatusCode = resp.StatusCode

		location := resp.Header.Get("Location")
		if resp.StatusCode < 300 || resp.StatusCode >= 400 || location == "" {
			res.Reachable = true

			return res
		}

		next, err := resolveLocation(current, location)
		if err != nil {
			res.ErrorType = ErrorTypeUnknown

			return res
		}
		current = next
		res.RedirectCount++
	}
}

func (r *Resolver) fetch(ctx context.Context, target string) (*http.Response, error) {
	hopCtx := ctx
	if r.opts.HopTimeout > 0 {
		var cancel context.CancelFunc
		hopCtx, cancel = context.WithTimeout(ctx, r.opts.HopTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(hopCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	_ = resp.Body.Close()

	return resp, nil
}

func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("could not parse current URL: %w", err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("could not parse redirect target: %w", err)
	}

	return base.ResolveReference(ref).String(), nil
}

func classifyError(err error) ErrorType {
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return ErrorTypeBlocked
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorTypeDNS
	}

	return ErrorTypeUnknown
}
