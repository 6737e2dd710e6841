/*
Package kycsdk is a client for the Verity KYC service.

The same SDKClient serves both callers of the API. Customers address their
session by id and need no credentials:

	client := kycsdk.NewSDKClient("https://kyc.example.com")

	preview, err := client.ResolveInvitation(ctx, code)
	sess, err := client.StartSessionFromInvitation(ctx, code)
	sess, err = client.SubmitPreferences(ctx, sess.ID, kycsdk.PreferencesRequest{Language: "en"})

Organization operators attach the bearer token issued by their identity
provider:

	org := client.WithToken(accessToken)
	inv, err := org.CreateInvitation(ctx, kycsdk.CreateInvitationRequest{Name: "Onboarding"})
	sess, err = org.Decide(ctx, sess.ID, kycsdk.DecisionRequest{Status: kycsdk.StatusApproved})

Failed calls return *APIError. Validation failures carry the rejected fields
in Details.
*/
package kycsdk
