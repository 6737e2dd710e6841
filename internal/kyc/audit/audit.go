// Package audit emits an append-only trail of session and invitation
// lifecycle events.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/verity/pkg/idx"
)

type EventType string

const (
	SessionStarted       EventType = "session.started"
	SessionStepCompleted EventType = "session.step_completed"
	SessionRetake        EventType = "session.retake"
	SessionDecided       EventType = "session.decided"
	InvitationCreated    EventType = "invitation.created"
	InvitationConsumed   EventType = "invitation.consumed"
	InvitationRevoked    EventType = "invitation.revoked"
)

// Event never carries PII. Attributes hold scores, steps and statuses only.
type Event struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"type"`
	OrganizationID string         `json:"organizationId"`
	SessionID      string         `json:"sessionId,omitempty"`
	InvitationID   string         `json:"invitationId,omitempty"`
	Actor          string         `json:"actor,omitempty"`
	Attributes     map[string]any `json:"attributes,omitempty"`
	At             time.Time      `json:"at"`
}

// NewEvent stamps a fresh id and time onto an event.
func NewEvent(typ EventType, orgID string, now time.Time) Event {
	return Event{
		ID:             idx.NewWithPrefix(idx.PrefixEvent).String(),
		Type:           typ,
		OrganizationID: orgID,
		At:             now.UTC(),
	}
}

func (e Event) With(key string, value any) Event {
	attrs := make(map[string]any, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	attrs[key] = value
	e.Attributes = attrs
	return e
}

// Key partitions events so a session's trail stays ordered.
func (e Event) Key() string {
	if e.SessionID != "" {
		return e.SessionID
	}
	if e.InvitationID != "" {
		return e.InvitationID
	}
	return e.OrganizationID
}

func (e Event) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to a structured logger. It is the default
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "audit")}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	attrs := []any{
		"event_id", e.ID,
		"event_type", string(e.Type),
		"org_id", e.OrganizationID,
	}
	if e.SessionID != "" {
		attrs = append(attrs, "session_id", e.SessionID)
	}
	if e.InvitationID != "" {
		attrs = append(attrs, "invitation_id", e.InvitationID)
	}
	if e.Actor != "" {
		attrs = append(attrs, "actor", e.Actor)
	}
	if len(e.Attributes) > 0 {
		attrs = append(attrs, "attributes", e.Attributes)
	}
	p.logger.InfoContext(ctx, "audit_event", attrs...)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
