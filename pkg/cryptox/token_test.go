package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		token, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		token2, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, token2, "tokens should be unique")
	}

	t.Run("invalid size", func(t *testing.T) {
		for _, size := range []int{0, -1} {
			token, err := GenerateToken(size)
			require.Error(t, err)
			require.Empty(t, token)
		}
	})

	t.Run("256-bit length", func(t *testing.T) {
		require.Len(t, MustGenerateToken(TokenSize256), 43)
	})

	t.Run("must panics", func(t *testing.T) {
		require.Panics(t, func() { MustGenerateToken(0) })
	})
}

func TestDigest(t *testing.T) {
	require.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Digest(nil))
	require.Equal(t, Digest([]byte("a")), Digest([]byte("a")))
	require.NotEqual(t, Digest([]byte("a")), Digest([]byte("b")))
}
