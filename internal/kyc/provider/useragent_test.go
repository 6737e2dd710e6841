package provider_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/stretchr/testify/require"
)

func TestUserAgentScorer(t *testing.T) {
	ctx := context.Background()
	var s provider.UserAgentScorer

	t.Run("desktop browser", func(t *testing.T) {
		score, ok, err := s.DeviceScore(ctx, provider.DeviceContext{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			AcceptLanguage: "en-AU,en;q=0.9",
		})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 0.92, score)
	})

	t.Run("crawler", func(t *testing.T) {
		score, ok, err := s.DeviceScore(ctx, provider.DeviceContext{
			UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 0.10, score)
	})

	t.Run("headless browser", func(t *testing.T) {
		score, ok, err := s.DeviceScore(ctx, provider.DeviceContext{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) HeadlessChrome/120.0.0.0 Safari/537.36",
		})
		require.NoError(t, err)
		require.True(t, ok)
		require.LessOrEqual(t, score, 0.25)
	})

	t.Run("no user agent", func(t *testing.T) {
		_, ok, err := s.DeviceScore(ctx, provider.DeviceContext{})
		require.NoError(t, err)
		require.False(t, ok)
	})
}
