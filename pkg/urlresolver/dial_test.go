package urlresolver

import (
	"context"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardedDial_BlocksResolvedPrivateAddr(t *testing.T) {
	lookup := func(_ context.Context, host string) ([]netip.Addr, error) {
		// simulates a public hostname whose DNS answer points inside
		return []netip.Addr{netip.MustParseAddr("10.0.0.5")}, nil
	}

	dial := guardedDial(lookup)
	_, err := dial(context.Background(), "tcp", "innocent.example:443")

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "innocent.example", blocked.Host)
}

func TestGuardedDial_BlocksAnyBlockedAnswer(t *testing.T) {
	// one public and one private answer: rebinding-style mixes must fail
	lookup := func(_ context.Context, _ string) ([]netip.Addr, error) {
		return []netip.Addr{
			netip.MustParseAddr("93.184.216.34"),
			netip.MustParseAddr("127.0.0.1"),
		}, nil
	}

	dial := guardedDial(lookup)
	_, err := dial(context.Background(), "tcp", "mixed.example:80")

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
}

func TestGuardedDial_BlocksLiteralMetadataHost(t *testing.T) {
	dial := guardedDial(func(_ context.Context, _ string) ([]netip.Addr, error) {
		t.Fatal("lookup must not be called for IP literals")

		return nil, nil
	})

	_, err := dial(context.Background(), "tcp", "169.254.169.254:80")

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
}

func TestGuardedDial_EmptyAnswerIsDNSError(t *testing.T) {
	dial := guardedDial(func(_ context.Context, _ string) ([]netip.Addr, error) {
		return nil, nil
	})

	_, err := dial(context.Background(), "tcp", "empty.example:80")

	var dnsErr *net.DNSError
	require.ErrorAs(t, err, &dnsErr)
}
