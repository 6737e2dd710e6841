package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/audit"
	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/lock"
	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/internal/kyc/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

const (
	testOrg        = "org-1"
	gpsOptionalOrg = "org-nogps"
)

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Publish(_ context.Context, e audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) count(typ audit.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

type testEnv struct {
	sessions    *SessionService
	invitations *InvitationService
	sim         *provider.Simulated
	audit       *recorder
	store       *sqlite.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	sim := provider.NewSimulated()
	rec := &recorder{}

	invitations := &InvitationService{Store: st, Audit: rec}
	sessions := &SessionService{
		Store:       st,
		Providers:   sim.Set(),
		Invitations: invitations,
		Locker:      lock.NewLocal(),
		Policy:      StaticPolicy{GPSRequired: true, GPSOptionalOrgs: []string{gpsOptionalOrg}},
		Audit:       rec,
	}

	return &testEnv{sessions: sessions, invitations: invitations, sim: sim, audit: rec, store: st}
}

func testImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := range 16 {
		for y := range 16 {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var validUserInfo = UserInfoInput{
	FullName:    "Jane Citizen",
	DateOfBirth: "1990-01-01",
	Phone:       "+61 412 345 678",
	Email:       "jane@example.com",
	Address:     "1 Main Street Sydney",
}

// walkTo drives a fresh session through every step before target.
func (e *testEnv) walkTo(t *testing.T, orgID string, target domain.Step) domain.Session {
	t.Helper()
	ctx := context.Background()

	sess, err := e.sessions.StartInternal(ctx, orgID, "user-1")
	require.NoError(t, err)

	for sess.CurrentStep < target {
		switch sess.CurrentStep {
		case domain.StepWelcome:
			sess, err = e.sessions.SetPreferences(ctx, sess.ID, PreferencesInput{Language: "en-AU"})
		case domain.StepUserInfo:
			sess, err = e.sessions.SubmitUserInfo(ctx, sess.ID, validUserInfo)
		case domain.StepPhoneVerification:
			_, err = e.sessions.SendOTP(ctx, sess.ID)
			require.NoError(t, err)
			sess, err = e.sessions.VerifyOTP(ctx, sess.ID, provider.SimulatedOTPCode)
		case domain.StepDocumentSelection:
			sess, err = e.sessions.SelectDocument(ctx, sess.ID, domain.DocumentPassport)
		case domain.StepDocumentCapture:
			sess, err = e.sessions.CaptureDocument(ctx, sess.ID, testImage(t))
		case domain.StepDocumentReview:
			sess, err = e.sessions.ConfirmDocument(ctx, sess.ID, ReviewInput{Confirmed: true})
		case domain.StepSelfieCapture:
			sess, err = e.sessions.CaptureSelfie(ctx, sess.ID, testImage(t))
		case domain.StepLivenessCheck:
			sess, err = e.sessions.CheckLiveness(ctx, sess.ID)
		case domain.StepGPSCheck:
			sess, err = e.sessions.CheckGPS(ctx, sess.ID, GPSInput{Latitude: -33.86, Longitude: 151.2})
		case domain.StepRiskSummary:
			_, err = e.sessions.ComputeRisk(ctx, sess.ID, provider.DeviceContext{})
			require.NoError(t, err)
			sess, err = e.sessions.Decide(ctx, orgID, sess.ID, DecisionInput{Status: domain.StatusApproved, DecidedBy: "reviewer-1"})
		}
		require.NoError(t, err, "at step %s", sess.CurrentStep)
	}
	return sess
}

func TestHappyPath(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	sess := e.walkTo(t, testOrg, domain.StepRiskSummary)
	require.Equal(t, "en-AU", sess.Preferences.Language)
	require.Equal(t, "+61412345678", sess.UserInfo.PhoneE164)
	require.True(t, sess.PhoneVerification.IsVerified)
	require.InDelta(t, 94.0, sess.Document.AuthenticityScore, 0.0001)
	require.NotEmpty(t, sess.Document.Digest)
	require.InDelta(t, 92.0, sess.Biometric.FaceMatchScore, 0.0001)
	require.True(t, sess.Biometric.LivenessPassed())
	require.InDelta(t, 85.0, sess.GPS.MatchConfidence, 0.0001)

	sess, err := e.sessions.ComputeRisk(ctx, sess.ID, provider.DeviceContext{})
	require.NoError(t, err)
	require.Equal(t, domain.StepRiskSummary, sess.CurrentStep)
	require.InDelta(t, 94.0525, sess.RiskAssessment.SystemRiskScore, 0.0001)
	require.Equal(t, domain.RiskGreen, sess.RiskAssessment.RiskLevel)

	sess, err = e.sessions.Decide(ctx, testOrg, sess.ID, DecisionInput{Status: domain.StatusApproved, DecidedBy: "reviewer-1"})
	require.NoError(t, err)
	require.Equal(t, domain.StepResult, sess.CurrentStep)
	require.Equal(t, domain.StatusApproved, sess.Status)
	require.Equal(t, "reviewer-1", sess.Decision.DecidedBy)

	report, err := e.sessions.ExportReport(ctx, testOrg, sess.ID)
	require.NoError(t, err)
	require.Contains(t, string(report), "STATUS: APPROVED")
	require.Contains(t, string(report), "Overall Risk Score: 94.1%")
	require.Contains(t, string(report), "Risk Level: GREEN")
	require.Contains(t, string(report), "- Document authenticity verified")

	again, err := e.sessions.ExportReport(ctx, testOrg, sess.ID)
	require.NoError(t, err)
	require.Equal(t, report, again)

	require.Equal(t, 10, e.audit.count(audit.SessionStepCompleted))
	require.Equal(t, 1, e.audit.count(audit.SessionDecided))
}

func TestStepOrder(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	sess, err := e.sessions.StartInternal(ctx, testOrg, "user-1")
	require.NoError(t, err)

	t.Run("handler for a later step is refused", func(t *testing.T) {
		_, err := e.sessions.SubmitUserInfo(ctx, sess.ID, validUserInfo)
		require.ErrorIs(t, err, ErrStepOutOfOrder)

		got, err := e.sessions.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StepWelcome, got.CurrentStep)
		require.Nil(t, got.UserInfo)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := e.sessions.SetPreferences(ctx, "ses_missing", PreferencesInput{Language: "en"})
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("bad language", func(t *testing.T) {
		_, err := e.sessions.SetPreferences(ctx, sess.ID, PreferencesInput{Language: "not a tag!"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "language")
	})
}

func TestUserInfoValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sess := e.walkTo(t, testOrg, domain.StepUserInfo)

	cases := map[string]func(in *UserInfoInput){
		"phone":       func(in *UserInfoInput) { in.Phone = "12345" },
		"email":       func(in *UserInfoInput) { in.Email = "not-an-email" },
		"fullName":    func(in *UserInfoInput) { in.FullName = "   " },
		"dateOfBirth": func(in *UserInfoInput) { in.DateOfBirth = "01/01/1990" },
		"address":     func(in *UserInfoInput) { in.Address = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validUserInfo
			mutate(&in)

			_, err := e.sessions.SubmitUserInfo(ctx, sess.ID, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, field)
		})
	}

	t.Run("email is optional", func(t *testing.T) {
		in := validUserInfo
		in.Email = ""
		got, err := e.sessions.SubmitUserInfo(ctx, sess.ID, in)
		require.NoError(t, err)
		require.Equal(t, domain.StepPhoneVerification, got.CurrentStep)
	})
}

func TestPhoneVerification(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sess := e.walkTo(t, testOrg, domain.StepPhoneVerification)

	t.Run("verify before send", func(t *testing.T) {
		_, err := e.sessions.VerifyOTP(ctx, sess.ID, "123456")
		require.ErrorIs(t, err, ErrOTPNotSent)
	})

	dispatch, err := e.sessions.SendOTP(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepPhoneVerification, dispatch.Session.CurrentStep)
	require.Equal(t, "********5678", dispatch.Destination)

	t.Run("wrong code is counted and does not advance", func(t *testing.T) {
		got, err := e.sessions.VerifyOTP(ctx, sess.ID, "000000")
		require.ErrorIs(t, err, ErrOTPMismatch)
		require.Equal(t, 1, got.PhoneVerification.Attempts)

		stored, err := e.sessions.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StepPhoneVerification, stored.CurrentStep)
		require.Equal(t, 1, stored.PhoneVerification.Attempts)
		require.False(t, stored.PhoneVerification.IsVerified)
	})

	t.Run("correct code advances", func(t *testing.T) {
		got, err := e.sessions.VerifyOTP(ctx, sess.ID, provider.SimulatedOTPCode)
		require.NoError(t, err)
		require.Equal(t, domain.StepDocumentSelection, got.CurrentStep)
		require.NotNil(t, got.PhoneVerification.VerifiedAt)
	})
}

func TestPhoneVerificationSessionCap(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sess := e.walkTo(t, testOrg, domain.StepPhoneVerification)

	for i := range MaxOTPAttempts {
		if i%4 == 0 {
			_, err := e.sessions.SendOTP(ctx, sess.ID)
			require.NoError(t, err)
		}
		_, err := e.sessions.VerifyOTP(ctx, sess.ID, "000000")
		require.ErrorIs(t, err, ErrOTPMismatch)
	}

	t.Run("resend keeps the count", func(t *testing.T) {
		_, err := e.sessions.SendOTP(ctx, sess.ID)
		require.ErrorIs(t, err, ErrOTPLocked)

		stored, err := e.sessions.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.Equal(t, MaxOTPAttempts, stored.PhoneVerification.Attempts)
	})

	t.Run("correct code is refused once locked", func(t *testing.T) {
		_, err := e.sessions.VerifyOTP(ctx, sess.ID, provider.SimulatedOTPCode)
		require.ErrorIs(t, err, ErrOTPLocked)

		stored, err := e.sessions.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StepPhoneVerification, stored.CurrentStep)
	})
}

func TestDocumentSelection(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	inv, err := e.invitations.Create(ctx, CreateInvitationInput{
		OrganizationID:    testOrg,
		CreatedBy:         "user-1",
		Name:              "Passport only",
		RequiredDocuments: []domain.DocumentType{domain.DocumentPassport},
	})
	require.NoError(t, err)

	sess, err := e.sessions.StartFromInvitation(ctx, inv.Code)
	require.NoError(t, err)
	sess, err = e.sessions.SetPreferences(ctx, sess.ID, PreferencesInput{Language: "en"})
	require.NoError(t, err)
	sess, err = e.sessions.SubmitUserInfo(ctx, sess.ID, validUserInfo)
	require.NoError(t, err)
	_, err = e.sessions.SendOTP(ctx, sess.ID)
	require.NoError(t, err)
	sess, err = e.sessions.VerifyOTP(ctx, sess.ID, provider.SimulatedOTPCode)
	require.NoError(t, err)

	_, err = e.sessions.SelectDocument(ctx, sess.ID, domain.DocumentAadhaar)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = e.sessions.SelectDocument(ctx, sess.ID, "library_card")
	require.ErrorAs(t, err, &verr)

	got, err := e.sessions.SelectDocument(ctx, sess.ID, domain.DocumentPassport)
	require.NoError(t, err)
	require.Equal(t, domain.StepDocumentCapture, got.CurrentStep)
}

func TestProviderFailureLeavesSessionUnchanged(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sess := e.walkTo(t, testOrg, domain.StepDocumentCapture)

	e.sim.Err = provider.NewError(provider.KindOutage, "simulated", "down", nil)
	_, err := e.sessions.CaptureDocument(ctx, sess.ID, testImage(t))
	require.True(t, provider.IsRetryable(err))

	got, err := e.sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepDocumentCapture, got.CurrentStep)
	require.Empty(t, got.Document.CapturedImage)
	require.Equal(t, sess.Version, got.Version)

	e.sim.Err = nil
	got, err = e.sessions.CaptureDocument(ctx, sess.ID, testImage(t))
	require.NoError(t, err)
	require.Equal(t, domain.StepDocumentReview, got.CurrentStep)

	t.Run("rejects non-image uploads", func(t *testing.T) {
		_, err := e.sessions.CaptureSelfie(ctx, sess.ID, []byte("plain text"))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestLivenessGate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sess := e.walkTo(t, testOrg, domain.StepLivenessCheck)

	e.sim.Liveness.DeepfakeDetected = true
	got, err := e.sessions.CheckLiveness(ctx, sess.ID)
	require.ErrorIs(t, err, ErrLivenessFailed)
	require.Equal(t, domain.StepLivenessCheck, got.CurrentStep)

	stored, err := e.sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, stored.Biometric.LivenessChecked)
	require.True(t, stored.Biometric.DeepfakeDetected)
	require.Equal(t, domain.StepLivenessCheck, stored.CurrentStep)

	e.sim.Liveness.DeepfakeDetected = false

	t.Run("no retry without a selfie retake", func(t *testing.T) {
		_, err := e.sessions.CheckLiveness(ctx, sess.ID)
		require.ErrorIs(t, err, ErrLivenessFailed)

		stored, err := e.sessions.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StepLivenessCheck, stored.CurrentStep)
		require.True(t, stored.Biometric.DeepfakeDetected)
	})

	t.Run("passes after retaking the selfie", func(t *testing.T) {
		got, err := e.sessions.Retake(ctx, sess.ID, domain.StepSelfieCapture)
		require.NoError(t, err)
		require.Equal(t, domain.StepSelfieCapture, got.CurrentStep)
		require.Nil(t, got.Biometric)

		_, err = e.sessions.CheckLiveness(ctx, sess.ID)
		require.ErrorIs(t, err, ErrStepOutOfOrder)

		got, err = e.sessions.CaptureSelfie(ctx, sess.ID, testImage(t))
		require.NoError(t, err)
		require.Equal(t, domain.StepLivenessCheck, got.CurrentStep)

		got, err = e.sessions.CheckLiveness(ctx, sess.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StepGPSCheck, got.CurrentStep)
		require.False(t, got.Biometric.DeepfakeDetected)
	})
}

func TestRetake(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sess := e.walkTo(t, testOrg, domain.StepLivenessCheck)
	require.NotNil(t, sess.Biometric)

	t.Run("only earlier capture steps", func(t *testing.T) {
		_, err := e.sessions.Retake(ctx, sess.ID, domain.StepDocumentReview)
		require.ErrorIs(t, err, ErrInvalidRetake)

		_, err = e.sessions.Retake(ctx, sess.ID, domain.StepGPSCheck)
		require.ErrorIs(t, err, ErrInvalidRetake)
	})

	got, err := e.sessions.Retake(ctx, sess.ID, domain.StepDocumentCapture)
	require.NoError(t, err)
	require.Equal(t, domain.StepDocumentCapture, got.CurrentStep)
	require.Equal(t, domain.DocumentPassport, got.Document.Type)
	require.Empty(t, got.Document.CapturedImage)
	require.Nil(t, got.Document.OCRExtraction)
	require.Nil(t, got.Biometric)
	require.NotNil(t, got.PhoneVerification)
	require.Equal(t, 1, e.audit.count(audit.SessionRetake))

	t.Run("flow resumes from the retaken step", func(t *testing.T) {
		got, err := e.sessions.CaptureDocument(ctx, sess.ID, testImage(t))
		require.NoError(t, err)
		require.Equal(t, domain.StepDocumentReview, got.CurrentStep)
	})

	t.Run("decided sessions are closed", func(t *testing.T) {
		done := e.walkTo(t, testOrg, domain.StepResult)
		_, err := e.sessions.Retake(ctx, done.ID, domain.StepUserInfo)
		require.ErrorIs(t, err, ErrSessionClosed)
	})
}

func TestGPSPolicy(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	t.Run("required", func(t *testing.T) {
		sess := e.walkTo(t, testOrg, domain.StepGPSCheck)
		_, err := e.sessions.SkipGPS(ctx, sess.ID)
		require.ErrorIs(t, err, ErrGPSRequired)
	})

	t.Run("optional", func(t *testing.T) {
		sess := e.walkTo(t, gpsOptionalOrg, domain.StepGPSCheck)
		got, err := e.sessions.SkipGPS(ctx, sess.ID)
		require.NoError(t, err)
		require.True(t, got.GPS.Skipped)

		got, err = e.sessions.ComputeRisk(ctx, sess.ID, provider.DeviceContext{})
		require.NoError(t, err)
		require.Equal(t, domain.RiskGreen, got.RiskAssessment.RiskLevel)
	})

	t.Run("coordinates out of range", func(t *testing.T) {
		sess := e.walkTo(t, testOrg, domain.StepGPSCheck)
		_, err := e.sessions.CheckGPS(ctx, sess.ID, GPSInput{Latitude: 91})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("red blocks approval", func(t *testing.T) {
		e := newTestEnv(t)
		e.sim.Authenticity = 0.1
		e.sim.FaceMatch = 0.1
		e.sim.AddressScore = 0
		sess := e.walkTo(t, testOrg, domain.StepRiskSummary)

		sess, err := e.sessions.ComputeRisk(ctx, sess.ID, provider.DeviceContext{})
		require.NoError(t, err)
		require.Equal(t, domain.RiskRed, sess.RiskAssessment.RiskLevel)

		_, err = e.sessions.Decide(ctx, testOrg, sess.ID, DecisionInput{Status: domain.StatusApproved, DecidedBy: "r"})
		require.ErrorIs(t, err, ErrApproveBlocked)

		got, err := e.sessions.Decide(ctx, testOrg, sess.ID, DecisionInput{Status: domain.StatusRejected, DecidedBy: "r"})
		require.NoError(t, err)
		require.Equal(t, domain.StatusRejected, got.Status)
		require.Contains(t, got.Decision.Reasons, "High risk factors identified")
	})

	t.Run("needs a risk assessment", func(t *testing.T) {
		e := newTestEnv(t)
		sess := e.walkTo(t, testOrg, domain.StepRiskSummary)

		_, err := e.sessions.Decide(ctx, testOrg, sess.ID, DecisionInput{Status: domain.StatusNeedsReview, DecidedBy: "r"})
		require.ErrorIs(t, err, ErrRiskNotComputed)
	})

	t.Run("other organization", func(t *testing.T) {
		e := newTestEnv(t)
		sess := e.walkTo(t, testOrg, domain.StepRiskSummary)

		_, err := e.sessions.Decide(ctx, "org-2", sess.ID, DecisionInput{Status: domain.StatusRejected, DecidedBy: "r"})
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("auto decision", func(t *testing.T) {
		e := newTestEnv(t)
		e.sessions.AutoDecision = true
		sess := e.walkTo(t, testOrg, domain.StepRiskSummary)

		got, err := e.sessions.ComputeRisk(ctx, sess.ID, provider.DeviceContext{})
		require.NoError(t, err)
		require.Equal(t, domain.StepResult, got.CurrentStep)
		require.Equal(t, domain.StatusApproved, got.Status)
		require.Equal(t, domain.DecidedByAuto, got.Decision.DecidedBy)
	})

	t.Run("report needs a decision", func(t *testing.T) {
		e := newTestEnv(t)
		sess := e.walkTo(t, testOrg, domain.StepRiskSummary)

		_, err := e.sessions.ExportReport(ctx, testOrg, sess.ID)
		require.ErrorIs(t, err, ErrReportNotReady)
	})
}

func TestInvitations(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	create := func(t *testing.T, limit *int) domain.Invitation {
		t.Helper()
		inv, err := e.invitations.Create(ctx, CreateInvitationInput{
			OrganizationID: testOrg,
			CreatedBy:      "user-1",
			Name:           "Spring onboarding",
			UsageLimit:     limit,
			Branding:       &BrandingInput{CompanyName: "Acme", PrimaryColor: "#112233"},
		})
		require.NoError(t, err)
		return inv
	}

	t.Run("create defaults", func(t *testing.T) {
		inv := create(t, nil)
		require.Len(t, inv.Code, 43)
		require.Equal(t, domain.DocumentCatalog(), inv.RequiredDocuments)
		require.WithinDuration(t, time.Now().Add(DefaultInvitationTTL), inv.ExpiresAt, time.Minute)
		require.Equal(t, "https://kyc.example.com/kyc/invite/"+inv.Code, inv.ShareURL("https://kyc.example.com/"))

		view, err := e.invitations.ResolveByCode(ctx, inv.Code)
		require.NoError(t, err)
		require.Equal(t, "Acme", view.Branding.CompanyName)
	})

	t.Run("create validation", func(t *testing.T) {
		zero := 0
		for name, in := range map[string]CreateInvitationInput{
			"name":                        {Name: " "},
			"usageLimit":                  {Name: "x", UsageLimit: &zero},
			"requiredDocuments":           {Name: "x", RequiredDocuments: []domain.DocumentType{"library_card"}},
			"customBranding.primaryColor": {Name: "x", Branding: &BrandingInput{PrimaryColor: "blue"}},
		} {
			in.OrganizationID = testOrg
			in.CreatedBy = "user-1"
			_, err := e.invitations.Create(ctx, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, name)
			require.Contains(t, verr.Fields, name)
		}
	})

	t.Run("concurrent starts respect the usage limit", func(t *testing.T) {
		one := 1
		inv := create(t, &one)

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			ok      int
			invalid int
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.sessions.StartFromInvitation(ctx, inv.Code)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, ErrInvitationInvalid):
					invalid++
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, ok)
		require.Equal(t, 7, invalid)

		_, err := e.invitations.ResolveByCode(ctx, inv.Code)
		require.ErrorIs(t, err, ErrInvitationInvalid)
	})

	t.Run("session snapshots the invitation", func(t *testing.T) {
		inv := create(t, nil)
		sess, err := e.sessions.StartFromInvitation(ctx, inv.Code)
		require.NoError(t, err)
		require.Equal(t, inv.ID, sess.InvitationID)
		require.Equal(t, inv.OrganizationID, sess.OrganizationID)
		require.Equal(t, inv.RequiredDocuments, sess.RequiredDocuments)

		got, err := e.invitations.GetForOrganization(ctx, testOrg, inv.ID)
		require.NoError(t, err)
		require.Equal(t, 1, got.UsageCount)
	})

	t.Run("expired", func(t *testing.T) {
		inv := create(t, nil)
		e.invitations.Now = func() time.Time { return time.Now().Add(DefaultInvitationTTL + time.Hour) }
		defer func() { e.invitations.Now = nil }()

		_, err := e.invitations.ResolveByCode(ctx, inv.Code)
		require.ErrorIs(t, err, ErrInvitationInvalid)
		_, err = e.sessions.StartFromInvitation(ctx, inv.Code)
		require.ErrorIs(t, err, ErrInvitationInvalid)
	})

	t.Run("revoked", func(t *testing.T) {
		inv := create(t, nil)

		got, err := e.invitations.Revoke(ctx, testOrg, inv.ID, "user-1")
		require.NoError(t, err)
		require.False(t, got.IsActive)
		require.NotNil(t, got.RevokedAt)

		again, err := e.invitations.Revoke(ctx, testOrg, inv.ID, "user-1")
		require.NoError(t, err)
		require.True(t, got.RevokedAt.Equal(*again.RevokedAt))

		_, err = e.sessions.StartFromInvitation(ctx, inv.Code)
		require.ErrorIs(t, err, ErrInvitationInvalid)
	})

	t.Run("scoped to the organization", func(t *testing.T) {
		inv := create(t, nil)

		_, err := e.invitations.GetForOrganization(ctx, "org-2", inv.ID)
		require.ErrorIs(t, err, ErrInvitationNotFound)
		_, err = e.invitations.Revoke(ctx, "org-2", inv.ID, "user-2")
		require.ErrorIs(t, err, ErrInvitationNotFound)

		list, total, err := e.invitations.ListByOrganization(ctx, "org-2", store.Page{})
		require.NoError(t, err)
		require.Empty(t, list)
		require.Zero(t, total)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := e.invitations.ResolveByCode(ctx, "does-not-exist")
		require.ErrorIs(t, err, ErrInvitationInvalid)
	})
}

func TestListSessions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	done := e.walkTo(t, "org-list", domain.StepResult)
	_, err := e.sessions.StartInternal(ctx, "org-list", "user-1")
	require.NoError(t, err)

	list, total, err := e.sessions.ListByOrganization(ctx, "org-list", "", store.Page{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 2, total)

	t.Run("by status", func(t *testing.T) {
		list, total, err := e.sessions.ListByOrganization(ctx, "org-list", domain.StatusApproved, store.Page{})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Equal(t, done.ID, list[0].ID)

		_, total, err = e.sessions.ListByOrganization(ctx, "org-list", domain.StatusNeedsReview, store.Page{})
		require.NoError(t, err)
		require.Zero(t, total)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, _, err := e.sessions.ListByOrganization(ctx, "org-list", "archived", store.Page{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "status")
	})
}

func TestHousekeeping(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour).UTC()
	require.NoError(t, e.store.OTPChallenges().PutOTPChallenge(ctx, domain.OTPChallenge{
		ID: "otp_1", Phone: "+61400000001", ExpiresAt: past, CreatedAt: past.Add(-10 * time.Minute),
	}))

	hk := NewHousekeepingService(e.store, discardLogger(), time.Hour)
	require.EqualValues(t, 1, hk.cleanup(ctx))
	require.EqualValues(t, 0, hk.cleanup(ctx))
}
