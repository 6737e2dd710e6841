package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
)

type capturesRepo struct {
	q *queries
}

func (r *capturesRepo) PutCapture(ctx context.Context, c domain.Capture) error {
	data, sealed, err := r.q.seal(c.Data, c.ID)
	if err != nil {
		return fmt.Errorf("seal capture: %w", err)
	}

	_, err = r.q.db.ExecContext(ctx, `
		INSERT INTO captures (id, session_id, kind, content_type, data, data_sealed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, kind) DO UPDATE SET
			id = excluded.id,
			content_type = excluded.content_type,
			data = excluded.data,
			data_sealed = excluded.data_sealed,
			created_at = excluded.created_at`,
		c.ID, c.SessionID, string(c.Kind), c.ContentType, data, sealed, millis(c.CreatedAt),
	)
	return err
}

func (r *capturesRepo) GetCapture(ctx context.Context, id string) (domain.Capture, error) {
	var (
		c       domain.Capture
		kind    string
		data    []byte
		sealed  bool
		created int64
	)
	err := r.q.db.QueryRowContext(ctx, `
		SELECT id, session_id, kind, content_type, data, data_sealed, created_at
		FROM captures WHERE id = ?`, id,
	).Scan(&c.ID, &c.SessionID, &kind, &c.ContentType, &data, &sealed, &created)
	if err != nil {
		return domain.Capture{}, mapNotFound(err)
	}

	c.Data, err = r.q.open(data, sealed, c.ID)
	if err != nil {
		return domain.Capture{}, fmt.Errorf("open capture %s: %w", id, err)
	}
	c.Kind = domain.CaptureKind(kind)
	c.CreatedAt = fromMillis(created)
	return c, nil
}
