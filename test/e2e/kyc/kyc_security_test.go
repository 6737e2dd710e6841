package kyc_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
	"github.com/stretchr/testify/require"
)

func TestOrganizationEndpointsRequireToken(t *testing.T) {
	svc, cleanup := setupKYCContainer(t, nil)
	defer cleanup()
	ctx := t.Context()

	t.Run("no token", func(t *testing.T) {
		_, err := svc.customer().ListInvitations(ctx, kycsdk.ListOptions{})
		assertAPIError(t, err, http.StatusUnauthorized, kycsdk.ErrorCodeUnauthorized)
	})

	t.Run("token from an untrusted key", func(t *testing.T) {
		sk, err := cryptox.NewSigningKey()
		require.NoError(t, err)
		rogue, err := jwtx.NewSignerEdDSA(orgKID, sk.PrivatePEM)
		require.NoError(t, err)
		token, err := rogue.Sign(jwtx.NewOrgClaims("mallory", "org-acme", []string{"kyc:admin"}, time.Hour, orgIssuer, []string{orgAudience}, time.Now()))
		require.NoError(t, err)

		_, err = svc.customer().WithToken(token).StartSession(ctx)
		assertAPIError(t, err, http.StatusUnauthorized, kycsdk.ErrorCodeUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwtx.NewOrgClaims("op", "org-acme", []string{"kyc:admin"}, time.Minute, orgIssuer, []string{orgAudience}, time.Now().Add(-2*time.Hour))
		token, err := svc.signer.Sign(claims)
		require.NoError(t, err)

		_, err = svc.customer().WithToken(token).StartSession(ctx)
		assertAPIError(t, err, http.StatusUnauthorized, kycsdk.ErrorCodeUnauthorized)
	})

	t.Run("read scope cannot write", func(t *testing.T) {
		_, err := svc.operator(t, "org-acme", "kyc:read").CreateInvitation(ctx, kycsdk.CreateInvitationRequest{Name: "x"})
		assertAPIError(t, err, http.StatusForbidden, kycsdk.ErrorCodeInsufficientScope)
	})
}

func TestOrganizationIsolation(t *testing.T) {
	svc, cleanup := setupKYCContainer(t, nil)
	defer cleanup()
	ctx := t.Context()

	acme := svc.operator(t, "org-acme", "kyc:admin", "kyc:review")
	globex := svc.operator(t, "org-globex", "kyc:admin", "kyc:review")

	inv, err := acme.CreateInvitation(ctx, kycsdk.CreateInvitationRequest{Name: "Acme only"})
	require.NoError(t, err)
	sess, err := acme.StartSession(ctx)
	require.NoError(t, err)

	_, err = globex.GetInvitation(ctx, inv.ID)
	assertAPIError(t, err, http.StatusNotFound, kycsdk.ErrorCodeNotFound)

	_, err = globex.RevokeInvitation(ctx, inv.ID)
	assertAPIError(t, err, http.StatusNotFound, kycsdk.ErrorCodeNotFound)

	_, err = globex.GetReport(ctx, sess.ID)
	assertAPIError(t, err, http.StatusNotFound, kycsdk.ErrorCodeNotFound)

	list, err := globex.ListInvitations(ctx, kycsdk.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, list.Invitations)
	require.Zero(t, list.Total)

	sessions, err := globex.ListSessions(ctx, kycsdk.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, sessions.Sessions)
	require.Zero(t, sessions.Total)
}

func TestInvitationLimits(t *testing.T) {
	svc, cleanup := setupKYCContainer(t, nil)
	defer cleanup()
	ctx := t.Context()

	admin := svc.operator(t, "org-acme", "kyc:admin")
	customer := svc.customer()

	t.Run("usage limit", func(t *testing.T) {
		limit := 2
		inv, err := admin.CreateInvitation(ctx, kycsdk.CreateInvitationRequest{Name: "Two uses", UsageLimit: &limit})
		require.NoError(t, err)

		for range limit {
			_, err := customer.StartSessionFromInvitation(ctx, inv.Code)
			require.NoError(t, err)
		}

		_, err = customer.StartSessionFromInvitation(ctx, inv.Code)
		assertAPIError(t, err, http.StatusNotFound, kycsdk.ErrorCodeInvitationInvalid)

		got, err := admin.GetInvitation(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, limit, got.UsageCount)
	})

	t.Run("revoked", func(t *testing.T) {
		inv, err := admin.CreateInvitation(ctx, kycsdk.CreateInvitationRequest{Name: "Short lived"})
		require.NoError(t, err)

		_, err = admin.RevokeInvitation(ctx, inv.ID)
		require.NoError(t, err)

		_, err = customer.ResolveInvitation(ctx, inv.Code)
		assertAPIError(t, err, http.StatusNotFound, kycsdk.ErrorCodeInvitationInvalid)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := customer.StartSessionFromInvitation(ctx, "does-not-exist")
		assertAPIError(t, err, http.StatusNotFound, kycsdk.ErrorCodeInvitationInvalid)
	})
}

func TestStepOrderingAndRetake(t *testing.T) {
	svc, cleanup := setupKYCContainer(t, nil)
	defer cleanup()
	ctx := t.Context()
	customer := svc.customer()

	sess, err := svc.operator(t, "org-acme", "kyc:admin").StartSession(ctx)
	require.NoError(t, err)

	_, err = customer.CaptureSelfie(ctx, sess.ID, pngImage(t, 32, 32))
	assertAPIError(t, err, http.StatusConflict, kycsdk.ErrorCodeStepOutOfOrder)

	walkToLocation(t, customer, sess.ID)

	got, err := customer.Retake(ctx, sess.ID, kycsdk.StepDocumentCapture)
	require.NoError(t, err)
	require.Equal(t, 4, got.CurrentStep)
	require.NotNil(t, got.Document)
	require.Empty(t, got.Document.CapturedImage)
	require.Nil(t, got.Biometric)

	_, err = customer.Retake(ctx, sess.ID, kycsdk.StepGPSCheck)
	assertAPIError(t, err, http.StatusConflict, kycsdk.ErrorCodeInvalidRetake)
}
