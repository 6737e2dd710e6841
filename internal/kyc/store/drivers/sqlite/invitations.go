package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
)

type invitationsRepo struct {
	q *queries
}

const invitationColumns = `id, organization_id, code, name, usage_limit, usage_count, is_active, expires_at,
	branding, required_documents, created_by, created_at, updated_at, revoked_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	var branding sql.NullString
	if inv.Branding != nil {
		raw, err := json.Marshal(inv.Branding)
		if err != nil {
			return err
		}
		branding = sql.NullString{String: string(raw), Valid: true}
	}

	var limit sql.NullInt64
	if inv.UsageLimit != nil {
		limit = sql.NullInt64{Int64: int64(*inv.UsageLimit), Valid: true}
	}

	_, err := r.q.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OrganizationID, inv.Code, inv.Name, limit, inv.UsageCount, inv.IsActive,
		millis(inv.ExpiresAt), branding, joinDocuments(inv.RequiredDocuments), inv.CreatedBy,
		millis(inv.CreatedAt), millis(inv.UpdatedAt), mapOptionalMillis(inv.RevokedAt),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitation(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.q.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	row := r.q.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE code = ?`, code)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListInvitationsByOrganization(
	ctx context.Context,
	orgID string,
	page store.Page,
) ([]domain.Invitation, int, error) {
	page = page.Normalize()

	var total int
	err := r.q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invitations WHERE organization_id = ?`, orgID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.db.QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE organization_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		orgID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Invitation, 0, page.Limit)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

// ConsumeInvitationByCode checks and increments in one statement so two
// concurrent starts can never both take the last use.
func (r *invitationsRepo) ConsumeInvitationByCode(
	ctx context.Context,
	code string,
	now time.Time,
) (domain.Invitation, error) {
	row := r.q.db.QueryRowContext(ctx, `
		UPDATE invitations
		SET usage_count = usage_count + 1, updated_at = ?
		WHERE code = ?
		  AND is_active = 1
		  AND expires_at > ?
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
		RETURNING `+invitationColumns,
		millis(now), code, millis(now),
	)
	inv, err := scanInvitation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Invitation{}, store.ErrNotConsumable
	}
	if err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

func (r *invitationsRepo) RevokeInvitation(ctx context.Context, id string, now time.Time) error {
	res, err := r.q.db.ExecContext(ctx, `
		UPDATE invitations
		SET is_active = 0, revoked_at = COALESCE(revoked_at, ?), updated_at = ?
		WHERE id = ?`,
		millis(now), millis(now), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanInvitation(row scanner) (domain.Invitation, error) {
	var (
		inv                       domain.Invitation
		limit                     sql.NullInt64
		expires, created, updated int64
		revoked                   sql.NullInt64
		branding                  sql.NullString
		docs                      string
	)
	err := row.Scan(
		&inv.ID, &inv.OrganizationID, &inv.Code, &inv.Name, &limit, &inv.UsageCount, &inv.IsActive,
		&expires, &branding, &docs, &inv.CreatedBy, &created, &updated, &revoked,
	)
	if err != nil {
		return domain.Invitation{}, err
	}

	if limit.Valid {
		l := int(limit.Int64)
		inv.UsageLimit = &l
	}
	if branding.Valid {
		var b domain.Branding
		if err := json.Unmarshal([]byte(branding.String), &b); err != nil {
			return domain.Invitation{}, err
		}
		inv.Branding = &b
	}
	inv.RequiredDocuments = splitDocuments(docs)
	inv.ExpiresAt = fromMillis(expires)
	inv.CreatedAt = fromMillis(created)
	inv.UpdatedAt = fromMillis(updated)
	inv.RevokedAt = mapNullMillis(revoked)
	return inv, nil
}

func joinDocuments(docs []domain.DocumentType) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = string(d)
	}
	return strings.Join(parts, " ")
}

func splitDocuments(s string) []domain.DocumentType {
	fields := strings.Fields(s)
	out := make([]domain.DocumentType, len(fields))
	for i, f := range fields {
		out[i] = domain.DocumentType(f)
	}
	return out
}
