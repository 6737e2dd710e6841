package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, id.IsZero())
	require.Empty(t, id.Prefix())
}

func TestOrdering(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())

	// ULIDs sort lexically by time, which the store relies on for "newest first"
	require.Less(t, a.String(), b.String())
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)

	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
}

func TestPrefixed(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := idx.NewWithPrefix(idx.PrefixSession)
		require.True(t, strings.HasPrefix(id.String(), "ses_"))
		require.Equal(t, idx.PrefixSession, id.Prefix())

		parsed, err := idx.ParseWithPrefix(idx.PrefixSession, id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
		require.False(t, id.Time().IsZero())
	})

	t.Run("wrong prefix", func(t *testing.T) {
		id := idx.NewWithPrefix(idx.PrefixInvitation)
		_, err := idx.ParseWithPrefix(idx.PrefixSession, id.String())
		require.ErrorIs(t, err, idx.ErrPrefix)
	})

	t.Run("garbage", func(t *testing.T) {
		for _, raw := range []string{"", "ses_", "ses_notaulid", "nounderscore"} {
			_, err := idx.ParseWithPrefix(idx.PrefixSession, raw)
			require.Error(t, err, raw)
		}
	})
}
