package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("new event", func(t *testing.T) {
		e := NewEvent(SessionStarted, "org-1", now)
		require.Contains(t, e.ID, "evt_")
		require.Equal(t, now, e.At)
		require.Equal(t, "org-1", e.Key())
	})

	t.Run("key prefers session then invitation", func(t *testing.T) {
		e := NewEvent(InvitationConsumed, "org-1", now)
		e.InvitationID = "inv_1"
		require.Equal(t, "inv_1", e.Key())

		e.SessionID = "ses_1"
		require.Equal(t, "ses_1", e.Key())
	})

	t.Run("with copies attributes", func(t *testing.T) {
		base := NewEvent(SessionDecided, "org-1", now).With("status", "approved")
		derived := base.With("score", 91.5)

		require.Len(t, base.Attributes, 1)
		require.Len(t, derived.Attributes, 2)
	})
}

func TestLogPublisher(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	p := NewLogPublisher(logger)

	e := NewEvent(SessionStepCompleted, "org-1", time.Now())
	e.SessionID = "ses_1"
	e = e.With("step", 3)

	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "audit_event", line["msg"])
	require.Equal(t, "session.step_completed", line["event_type"])
	require.Equal(t, "ses_1", line["session_id"])
	require.Equal(t, "audit", line["component"])
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewKafkaPublisher(nil, "")
	require.Error(t, err)
}
