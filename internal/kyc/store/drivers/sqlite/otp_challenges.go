package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
)

type otpChallengesRepo struct {
	q *queries
}

func (r *otpChallengesRepo) PutOTPChallenge(ctx context.Context, c domain.OTPChallenge) error {
	_, err := r.q.db.ExecContext(ctx, `
		INSERT INTO otp_challenges (phone, id, attempts, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (phone) DO UPDATE SET
			id = excluded.id,
			attempts = excluded.attempts,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		c.Phone, c.ID, c.Attempts, millis(c.ExpiresAt), millis(c.CreatedAt),
	)
	return err
}

func (r *otpChallengesRepo) GetOTPChallenge(ctx context.Context, phone string) (domain.OTPChallenge, error) {
	var (
		c                domain.OTPChallenge
		expires, created int64
	)
	err := r.q.db.QueryRowContext(ctx, `
		SELECT phone, id, attempts, expires_at, created_at
		FROM otp_challenges WHERE phone = ?`, phone,
	).Scan(&c.Phone, &c.ID, &c.Attempts, &expires, &created)
	if err != nil {
		return domain.OTPChallenge{}, mapNotFound(err)
	}
	c.ExpiresAt = fromMillis(expires)
	c.CreatedAt = fromMillis(created)
	return c, nil
}

func (r *otpChallengesRepo) IncrementOTPAttempts(ctx context.Context, phone string) (int, error) {
	var attempts int
	err := r.q.db.QueryRowContext(ctx, `
		UPDATE otp_challenges SET attempts = attempts + 1
		WHERE phone = ?
		RETURNING attempts`, phone,
	).Scan(&attempts)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *otpChallengesRepo) DeleteOTPChallenge(ctx context.Context, phone string) error {
	_, err := r.q.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE phone = ?`, phone)
	return err
}

func (r *otpChallengesRepo) DeleteExpiredOTPChallenges(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE expires_at <= ?`, millis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
