package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
)

type sessionsRepo struct {
	q *queries
}

const sessionColumns = `id, organization_id, invitation_id, current_step, status, data, data_sealed, created_at, updated_at, version`

func (r *sessionsRepo) encode(s domain.Session) ([]byte, bool, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, false, fmt.Errorf("encode session: %w", err)
	}
	return r.q.seal(raw, s.ID)
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	data, sealed, err := r.encode(s)
	if err != nil {
		return err
	}

	_, err = r.q.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.OrganizationID, mapStringNull(s.InvitationID), int(s.CurrentStep), string(s.Status),
		data, sealed, millis(s.CreatedAt), millis(s.UpdatedAt), s.Version,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	row := r.q.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := r.scan(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) UpdateSession(ctx context.Context, s domain.Session) error {
	data, sealed, err := r.encode(s)
	if err != nil {
		return err
	}

	res, err := r.q.db.ExecContext(ctx, `
		UPDATE sessions
		SET current_step = ?, status = ?, data = ?, data_sealed = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		int(s.CurrentStep), string(s.Status), data, sealed, millis(s.UpdatedAt),
		s.ID, s.Version,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Distinguish a missing row from a stale version.
	var exists int
	err = r.q.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, s.ID).Scan(&exists)
	if err != nil {
		return mapNotFound(err)
	}
	return store.ErrConflict
}

func (r *sessionsRepo) ListSessionsByOrganization(
	ctx context.Context,
	orgID string,
	filter store.SessionFilter,
	page store.Page,
) ([]domain.Session, int, error) {
	page = page.Normalize()
	status := string(filter.Status)

	var total int
	err := r.q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sessions
		WHERE organization_id = ? AND (? = '' OR status = ?)`,
		orgID, status, status,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE organization_id = ? AND (? = '' OR status = ?)
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		orgID, status, status, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Session, 0, page.Limit)
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *sessionsRepo) scan(row scanner) (domain.Session, error) {
	var (
		id, orgID, status  string
		invitationID       sql.NullString
		step               int
		data               []byte
		sealed             bool
		createdAt, updated int64
		version            int64
	)
	if err := row.Scan(&id, &orgID, &invitationID, &step, &status, &data, &sealed, &createdAt, &updated, &version); err != nil {
		return domain.Session{}, err
	}

	plain, err := r.q.open(data, sealed, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("open session %s: %w", id, err)
	}

	var s domain.Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}

	// Columns are authoritative over the blob.
	s.ID = id
	s.OrganizationID = orgID
	s.InvitationID = mapNullString(invitationID)
	s.CurrentStep = domain.Step(step)
	s.Status = domain.SessionStatus(status)
	s.CreatedAt = fromMillis(createdAt)
	s.UpdatedAt = fromMillis(updated)
	s.Version = version
	return s, nil
}
