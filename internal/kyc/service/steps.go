package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/pkg/idx"
	"github.com/aussiebroadwan/verity/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

type PreferencesInput struct {
	Language      string `json:"language" validate:"required,kyc_lang"`
	VoiceGuidance bool   `json:"voiceGuidance"`
}

// SetPreferences completes the welcome step.
func (s *SessionService) SetPreferences(ctx context.Context, id string, in PreferencesInput) (domain.Session, error) {
	if err := check(in); err != nil {
		return domain.Session{}, err
	}

	return s.mutate(ctx, id, domain.StepWelcome, func(ctx context.Context, sess *domain.Session, c *change) error {
		sess.Preferences = &domain.Preferences{
			Language:      canonicalLanguage(in.Language),
			VoiceGuidance: in.VoiceGuidance,
		}
		return s.advance(sess, c)
	})
}

type UserInfoInput struct {
	FullName    string `json:"fullName" validate:"required,max=200"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Phone       string `json:"phone" validate:"required,max=32,kyc_phone"`
	Email       string `json:"email" validate:"omitempty,max=254,kyc_email"`
	Address     string `json:"address" validate:"required,max=500"`
}

func (in *UserInfoInput) trim() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
}

// SubmitUserInfo records the personal details.
func (s *SessionService) SubmitUserInfo(ctx context.Context, id string, in UserInfoInput) (domain.Session, error) {
	in.trim()
	if err := check(in); err != nil {
		return domain.Session{}, err
	}

	return s.mutate(ctx, id, domain.StepUserInfo, func(ctx context.Context, sess *domain.Session, c *change) error {
		sess.UserInfo = &domain.UserInfo{
			FullName:    in.FullName,
			DateOfBirth: in.DateOfBirth,
			Phone:       in.Phone,
			PhoneE164:   normalizePhone(in.Phone, s.PhoneRegion),
			Email:       in.Email,
			Address:     in.Address,
		}
		return s.advance(sess, c)
	})
}

// MaxOTPAttempts caps the codes a session may try across every resend.
const MaxOTPAttempts = 10

type OTPDispatch struct {
	Session     domain.Session
	Result      provider.OTPResult
	Destination string
}

// SendOTP issues a code to the phone from the user info step. It does not
// advance the session.
func (s *SessionService) SendOTP(ctx context.Context, id string) (OTPDispatch, error) {
	var res provider.OTPResult
	var phone string

	sess, err := s.mutate(ctx, id, domain.StepPhoneVerification, func(ctx context.Context, sess *domain.Session, c *change) error {
		if sess.UserInfo == nil {
			return fmt.Errorf("%w: user info missing", ErrStepIncomplete)
		}
		phone = otpAddress(sess.UserInfo.PhoneE164, sess.UserInfo.Phone)

		attempts := 0
		if sess.PhoneVerification != nil {
			attempts = sess.PhoneVerification.Attempts
		}
		if attempts >= MaxOTPAttempts {
			return ErrOTPLocked
		}

		var err error
		res, err = s.Providers.OTP.SendOTP(ctx, phone)
		if err != nil {
			return provider.Wrap("otp", err)
		}

		sess.PhoneVerification = &domain.PhoneVerification{Phone: phone, Attempts: attempts}
		slogx.FromContext(ctx).Info("otp sent", slog.Time("expires_at", res.ExpiresAt))
		return nil
	})
	if err != nil {
		return OTPDispatch{}, err
	}
	return OTPDispatch{Session: sess, Result: res, Destination: maskPhone(phone)}, nil
}

// VerifyOTP checks the code and completes the phone step. Wrong codes are
// counted on the session and survive a resend.
func (s *SessionService) VerifyOTP(ctx context.Context, id, code string) (domain.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Session{}, invalid("code", "is required")
	}

	return s.mutate(ctx, id, domain.StepPhoneVerification, func(ctx context.Context, sess *domain.Session, c *change) error {
		pv := sess.PhoneVerification
		if pv == nil {
			return ErrOTPNotSent
		}
		if pv.Attempts >= MaxOTPAttempts {
			return ErrOTPLocked
		}

		res, err := s.Providers.OTP.VerifyOTP(ctx, pv.Phone, code)
		switch {
		case errors.Is(err, provider.ErrNoChallenge):
			return ErrOTPNotSent
		case errors.Is(err, provider.ErrChallengeExpired):
			return ErrOTPExpired
		case errors.Is(err, provider.ErrTooManyAttempts):
			return ErrOTPLocked
		case err != nil:
			return provider.Wrap("otp", err)
		}

		pv.Attempts++
		if !res.Verified {
			slogx.FromContext(ctx).Warn("otp mismatch", slog.Int("attempts", pv.Attempts))
			return saveAnd(ErrOTPMismatch)
		}

		now := s.now()
		pv.IsVerified = true
		pv.VerifiedAt = &now
		return s.advance(sess, c)
	})
}

// SelectDocument picks one of the session's required document types.
func (s *SessionService) SelectDocument(ctx context.Context, id string, doc domain.DocumentType) (domain.Session, error) {
	if !doc.Valid() {
		return domain.Session{}, invalid("documentType", "is not a supported document")
	}

	return s.mutate(ctx, id, domain.StepDocumentSelection, func(ctx context.Context, sess *domain.Session, c *change) error {
		if !sess.Requires(doc) {
			return invalid("documentType", "is not accepted for this session")
		}
		sess.Document = &domain.Document{Type: doc}
		return s.advance(sess, c)
	})
}

// CaptureDocument stores the document image and runs OCR and authenticity
// checks concurrently. Either failing leaves the session untouched.
func (s *SessionService) CaptureDocument(ctx context.Context, id string, data []byte) (domain.Session, error) {
	img, err := decodeCapture(data)
	if err != nil {
		return domain.Session{}, err
	}

	return s.mutate(ctx, id, domain.StepDocumentCapture, func(ctx context.Context, sess *domain.Session, c *change) error {
		if sess.Document == nil {
			return fmt.Errorf("%w: no document selected", ErrStepIncomplete)
		}

		var (
			ocr   provider.OCRResult
			score float64
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			ocr, err = s.Providers.Reader.ReadDocument(gctx, img)
			return provider.Wrap("ocr", err)
		})
		g.Go(func() error {
			var err error
			score, err = s.Providers.Verifier.VerifyDocument(gctx, img, string(sess.Document.Type))
			return provider.Wrap("document_verifier", err)
		})
		if err := g.Wait(); err != nil {
			return err
		}

		capture := newCapture(sess.ID, domain.CaptureDocument, img, s.now())
		c.captures = append(c.captures, capture)

		sess.Document = &domain.Document{
			Type:          sess.Document.Type,
			CapturedImage: capture.ID,
			Width:         img.Width,
			Height:        img.Height,
			Digest:        img.Digest,
			OCRExtraction: &domain.OCRExtraction{
				DocumentNumber: ocr.DocumentNumber,
				FirstName:      ocr.FirstName,
				LastName:       ocr.LastName,
				DateOfBirth:    ocr.DateOfBirth,
				ExpiryDate:     ocr.ExpiryDate,
				Confidence:     percent(ocr.Confidence),
			},
			AuthenticityScore: percent(score),
		}
		return s.advance(sess, c)
	})
}

// ReviewInput confirms the extracted document fields. Non-empty
// corrections replace what OCR read.
type ReviewInput struct {
	Confirmed      bool   `json:"confirmed"`
	DocumentNumber string `json:"documentNumber" validate:"max=64"`
	FirstName      string `json:"firstName" validate:"max=100"`
	LastName       string `json:"lastName" validate:"max=100"`
	DateOfBirth    string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate     string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
}

func (s *SessionService) ConfirmDocument(ctx context.Context, id string, in ReviewInput) (domain.Session, error) {
	if err := check(in); err != nil {
		return domain.Session{}, err
	}
	if !in.Confirmed {
		return domain.Session{}, invalid("confirmed", "must be true to continue; retake the capture instead")
	}

	return s.mutate(ctx, id, domain.StepDocumentReview, func(ctx context.Context, sess *domain.Session, c *change) error {
		if sess.Document == nil || sess.Document.OCRExtraction == nil {
			return fmt.Errorf("%w: nothing to review", ErrStepIncomplete)
		}

		ocr := sess.Document.OCRExtraction
		for dst, v := range map[*string]string{
			&ocr.DocumentNumber: in.DocumentNumber,
			&ocr.FirstName:      in.FirstName,
			&ocr.LastName:       in.LastName,
			&ocr.DateOfBirth:    in.DateOfBirth,
			&ocr.ExpiryDate:     in.ExpiryDate,
		} {
			if v = strings.TrimSpace(v); v != "" {
				*dst = v
			}
		}
		sess.Document.Confirmed = true
		return s.advance(sess, c)
	})
}

// CaptureSelfie stores the selfie and scores it against the document photo.
func (s *SessionService) CaptureSelfie(ctx context.Context, id string, data []byte) (domain.Session, error) {
	selfie, err := decodeCapture(data)
	if err != nil {
		return domain.Session{}, err
	}

	return s.mutate(ctx, id, domain.StepSelfieCapture, func(ctx context.Context, sess *domain.Session, c *change) error {
		if sess.Document == nil {
			return fmt.Errorf("%w: no document captured", ErrStepIncomplete)
		}
		document, err := s.loadCapture(ctx, sess.Document.CapturedImage)
		if err != nil {
			return err
		}

		score, err := s.Providers.Faces.MatchFace(ctx, selfie, document)
		if err != nil {
			return provider.Wrap("face_match", err)
		}

		capture := newCapture(sess.ID, domain.CaptureSelfie, selfie, s.now())
		c.captures = append(c.captures, capture)

		sess.Biometric = &domain.Biometric{
			SelfieImage:    capture.ID,
			FaceMatchScore: percent(score),
		}
		return s.advance(sess, c)
	})
}

// CheckLiveness runs the liveness gate on the stored selfie. A failed gate is
// recorded and stays failed until the selfie is retaken.
func (s *SessionService) CheckLiveness(ctx context.Context, id string) (domain.Session, error) {
	return s.mutate(ctx, id, domain.StepLivenessCheck, func(ctx context.Context, sess *domain.Session, c *change) error {
		if sess.Biometric == nil {
			return fmt.Errorf("%w: no selfie captured", ErrStepIncomplete)
		}
		if sess.Biometric.LivenessChecked && !sess.Biometric.LivenessPassed() {
			return fmt.Errorf("%w: retake the selfie", ErrLivenessFailed)
		}
		selfie, err := s.loadCapture(ctx, sess.Biometric.SelfieImage)
		if err != nil {
			return err
		}

		res, err := s.Providers.Liveness.DetectLiveness(ctx, selfie)
		if err != nil {
			return provider.Wrap("liveness", err)
		}

		b := sess.Biometric
		b.LivenessChecked = true
		b.LivenessDetected = res.LivenessDetected
		b.PulseDetected = res.PulseDetected
		b.DeepfakeDetected = res.DeepfakeDetected
		b.DepthMapVerified = res.DepthMapVerified

		if !b.LivenessPassed() {
			slogx.FromContext(ctx).Warn("liveness gate failed",
				slog.Bool("liveness", res.LivenessDetected),
				slog.Bool("pulse", res.PulseDetected),
				slog.Bool("deepfake", res.DeepfakeDetected),
				slog.Bool("depth_map", res.DepthMapVerified),
			)
			return saveAnd(ErrLivenessFailed)
		}
		return s.advance(sess, c)
	})
}

type GPSInput struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// CheckGPS resolves the coordinates and matches them against the declared
// address.
func (s *SessionService) CheckGPS(ctx context.Context, id string, in GPSInput) (domain.Session, error) {
	if err := check(in); err != nil {
		return domain.Session{}, err
	}

	return s.mutate(ctx, id, domain.StepGPSCheck, func(ctx context.Context, sess *domain.Session, c *change) error {
		if sess.UserInfo == nil {
			return fmt.Errorf("%w: user info missing", ErrStepIncomplete)
		}

		loc, err := s.Providers.Geo.Geocode(ctx, in.Latitude, in.Longitude)
		if err != nil {
			return provider.Wrap("geocoder", err)
		}
		match, err := s.Providers.Geo.MatchAddress(ctx, sess.UserInfo.Address, loc.Address)
		if err != nil {
			return provider.Wrap("geocoder", err)
		}

		sess.GPS = &domain.GPS{
			Latitude:        in.Latitude,
			Longitude:       in.Longitude,
			Address:         loc.Address,
			Matched:         match.Matched,
			MatchConfidence: percent(match.Confidence),
		}
		return s.advance(sess, c)
	})
}

// SkipGPS passes the location step for organizations that do not require it.
func (s *SessionService) SkipGPS(ctx context.Context, id string) (domain.Session, error) {
	return s.mutate(ctx, id, domain.StepGPSCheck, func(ctx context.Context, sess *domain.Session, c *change) error {
		if s.Policy != nil && s.Policy.RequireGPS(sess.OrganizationID) {
			return ErrGPSRequired
		}
		sess.GPS = &domain.GPS{Skipped: true}
		return s.advance(sess, c)
	})
}

func decodeCapture(data []byte) (provider.Image, error) {
	if len(data) == 0 {
		return provider.Image{}, invalid("image", "is required")
	}
	img, err := provider.DecodeImage(data)
	if errors.Is(err, provider.ErrImageTooLarge) {
		return provider.Image{}, invalid("image", "dimensions are too large")
	}
	if err != nil {
		return provider.Image{}, invalid("image", "must be a JPEG or PNG image")
	}
	return img, nil
}

func newCapture(sessionID string, kind domain.CaptureKind, img provider.Image, now time.Time) domain.Capture {
	return domain.Capture{
		ID:          idx.NewWithPrefix(idx.PrefixCapture).String(),
		SessionID:   sessionID,
		Kind:        kind,
		ContentType: img.ContentType,
		Data:        img.Data,
		CreatedAt:   now,
	}
}

func (s *SessionService) loadCapture(ctx context.Context, id string) (provider.Image, error) {
	if id == "" {
		return provider.Image{}, fmt.Errorf("%w: capture missing", ErrStepIncomplete)
	}
	capture, err := s.Store.Captures().GetCapture(ctx, id)
	if err != nil {
		return provider.Image{}, fmt.Errorf("load capture %s: %w", id, err)
	}
	return provider.DecodeImage(capture.Data)
}

// percent converts a provider score to the 0..100 scale, keeping two
// decimals.
func percent(score float64) float64 {
	return math.Round(score*10000) / 100
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
