package provider

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/idx"
	"github.com/aussiebroadwan/verity/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultOTPTTL         = 10 * time.Minute
	DefaultOTPMaxAttempts = 5
)

// Deliverer puts a code in front of the customer, e.g. by SMS.
type Deliverer interface {
	Deliver(ctx context.Context, phone, code string) error
}

// LogDeliverer writes the delivery to the log instead of sending it. The
// code attribute is redacted by the slogx handler.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(ctx context.Context, phone, code string) error {
	slogx.FromContext(ctx).Info("otp delivery skipped, no sms gateway configured",
		slog.String("phone", phone),
		slog.String("otp_code", code),
	)
	return nil
}

// TOTP issues six digit codes from a per-challenge key derived from the server
// secret, so no code or seed is ever written to the database. Challenges
// are kept in the store to track expiry and failed attempts.
type TOTP struct {
	Challenges  store.OTPChallenges
	Deliverer   Deliverer
	Secret      []byte
	TTL         time.Duration
	MaxAttempts int

	now func() time.Time
}

// NewTOTP creates a TOTP sender with the default TTL and attempt limit.
func NewTOTP(challenges store.OTPChallenges, deliverer Deliverer, secret []byte) *TOTP {
	return &TOTP{
		Challenges:  challenges,
		Deliverer:   deliverer,
		Secret:      secret,
		TTL:         DefaultOTPTTL,
		MaxAttempts: DefaultOTPMaxAttempts,
		now:         time.Now,
	}
}

func (t *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    uint(t.TTL / time.Second),
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (t *TOTP) seed(challengeID string) (string, error) {
	key, err := cryptox.DeriveKey(t.Secret, "verity/otp/"+challengeID, 20)
	if err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(key), nil
}

func (t *TOTP) SendOTP(ctx context.Context, phone string) (OTPResult, error) {
	now := t.now().UTC().Truncate(time.Millisecond)

	ch := domain.OTPChallenge{
		ID:        idx.NewWithPrefix(idx.PrefixChallenge).String(),
		Phone:     phone,
		ExpiresAt: now.Add(t.TTL),
		CreatedAt: now,
	}

	seed, err := t.seed(ch.ID)
	if err != nil {
		return OTPResult{}, NewError(KindInternal, "totp", "derive seed", err)
	}
	code, err := totp.GenerateCodeCustom(seed, now, t.opts())
	if err != nil {
		return OTPResult{}, NewError(KindInternal, "totp", "generate code", err)
	}

	if err := t.Challenges.PutOTPChallenge(ctx, ch); err != nil {
		return OTPResult{}, fmt.Errorf("store otp challenge: %w", err)
	}

	if err := t.Deliverer.Deliver(ctx, phone, code); err != nil {
		return OTPResult{}, Wrap("sms", err)
	}

	return OTPResult{ExpiresAt: ch.ExpiresAt, AttemptsLeft: t.MaxAttempts}, nil
}

func (t *TOTP) VerifyOTP(ctx context.Context, phone, code string) (OTPResult, error) {
	now := t.now().UTC()

	ch, err := t.Challenges.GetOTPChallenge(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		return OTPResult{}, ErrNoChallenge
	}
	if err != nil {
		return OTPResult{}, fmt.Errorf("load otp challenge: %w", err)
	}

	if !now.Before(ch.ExpiresAt) {
		_ = t.Challenges.DeleteOTPChallenge(ctx, phone)
		return OTPResult{}, ErrChallengeExpired
	}
	if ch.Attempts >= t.MaxAttempts {
		return OTPResult{}, ErrTooManyAttempts
	}

	seed, err := t.seed(ch.ID)
	if err != nil {
		return OTPResult{}, NewError(KindInternal, "totp", "derive seed", err)
	}
	valid, err := totp.ValidateCustom(code, seed, now, t.opts())
	if err != nil && !errors.Is(err, otp.ErrValidateInputInvalidLength) {
		return OTPResult{}, NewError(KindInternal, "totp", "validate code", err)
	}

	if !valid {
		attempts, err := t.Challenges.IncrementOTPAttempts(ctx, phone)
		if err != nil {
			return OTPResult{}, fmt.Errorf("record otp attempt: %w", err)
		}
		return OTPResult{ExpiresAt: ch.ExpiresAt, AttemptsLeft: max(t.MaxAttempts-attempts, 0)}, nil
	}

	if err := t.Challenges.DeleteOTPChallenge(ctx, phone); err != nil {
		return OTPResult{}, fmt.Errorf("clear otp challenge: %w", err)
	}
	return OTPResult{Verified: true, ExpiresAt: ch.ExpiresAt}, nil
}
