package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter() (*Limiter, *time.Time) {
	l := New(Options{
		Window:          time.Minute,
		MaxRequests:     30,
		CleanupInterval: 2 * time.Minute,
		MaxClients:      10000,
	})

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	return l, &clock
}

func TestLimiter_AdmitsUpToBudget(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 30; i++ {
		require.False(t, l.IsRateLimited("1.2.3.4"), "request %d should be admitted", i+1)
		*clock = clock.Add(time.Second)
	}

	require.True(t, l.IsRateLimited("1.2.3.4"), "31st request should be rejected")
}

func TestLimiter_WindowSlides(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 31; i++ {
		l.IsRateLimited("1.2.3.4")
	}
	require.True(t, l.IsRateLimited("1.2.3.4"))

	// after the window fully elapses, admission resumes
	*clock = clock.Add(time.Minute + time.Second)
	require.False(t, l.IsRateLimited("1.2.3.4"))
}

func TestLimiter_IndependentClients(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 31; i++ {
		l.IsRateLimited("1.2.3.4")
	}
	require.True(t, l.IsRateLimited("1.2.3.4"))
	require.False(t, l.IsRateLimited("5.6.7.8"))
}

func TestLimiter_ClientCapRejectsNewcomers(t *testing.T) {
	l, _ := newTestLimiter()
	l.opts.MaxClients = 100

	for i := 0; i < 100; i++ {
		require.False(t, l.IsRateLimited(fmt.Sprintf("client-%d", i)))
	}

	// map is full: a brand-new identifier is rejected without being tracked
	require.True(t, l.IsRateLimited("newcomer"))
	require.NotContains(t, l.buckets, "newcomer")

	// already-tracked identifiers still get their budget
	require.False(t, l.IsRateLimited("client-0"))
}

func TestLimiter_CleanupDropsStaleBuckets(t *testing.T) {
	l, clock := newTestLimiter()

	l.IsRateLimited("old-client")
	require.Contains(t, l.buckets, "old-client")

	// past the window and the cleanup interval, the next request sweeps
	*clock = clock.Add(3 * time.Minute)
	l.IsRateLimited("fresh-client")

	require.NotContains(t, l.buckets, "old-client")
	require.Contains(t, l.buckets, "fresh-client")
}

func TestPruneOld(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bucket := []time.Time{base, base.Add(time.Second), base.Add(2 * time.Second)}

	pruned := pruneOld(bucket, base.Add(time.Second))
	require.Len(t, pruned, 1)
	require.Equal(t, base.Add(2*time.Second), pruned[0])

	require.Len(t, pruneOld(pruned, base), 1)
}
