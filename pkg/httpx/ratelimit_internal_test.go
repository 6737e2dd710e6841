package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBuckets(Limit{Requests: 2, Window: time.Minute, Burst: 2})
	b.swept = now

	_, ok := b.take("a", now)
	require.True(t, ok)
	_, ok = b.take("a", now)
	require.True(t, ok)

	t.Run("empty bucket reports the wait", func(t *testing.T) {
		wait, ok := b.take("a", now)
		require.False(t, ok)
		require.InDelta(t, 30*time.Second, wait, float64(time.Second))
	})

	t.Run("refills over time", func(t *testing.T) {
		_, ok := b.take("a", now.Add(31*time.Second))
		require.True(t, ok)
	})

	t.Run("idle keys are swept", func(t *testing.T) {
		later := now.Add(sweepEvery + time.Minute)
		_, ok := b.take("b", later)
		require.True(t, ok)
		require.NotContains(t, b.byKey, "a")
		require.Contains(t, b.byKey, "b")
	})
}
