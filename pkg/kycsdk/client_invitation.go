package kycsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateInvitation mints a shareable link. Requires the kyc:admin scope.
func (c *SDKClient) CreateInvitation(ctx context.Context, req CreateInvitationRequest) (*Invitation, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/invitations", req)
	if err != nil {
		return nil, err
	}

	var inv Invitation
	if err := decodeJSON(resp, &inv, http.StatusCreated); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvitations returns a page of the organization's invitations, newest
// first.
func (c *SDKClient) ListInvitations(ctx context.Context, opts ListOptions) (*InvitationList, error) {
	opts.Status = ""
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/invitations"+opts.query(), nil)
	if err != nil {
		return nil, err
	}

	var list InvitationList
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *SDKClient) GetInvitation(ctx context.Context, id string) (*Invitation, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/invitations/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var inv Invitation
	if err := decodeJSON(resp, &inv, http.StatusOK); err != nil {
		return nil, err
	}
	return &inv, nil
}

// RevokeInvitation deactivates a link. Revoking twice is not an error.
func (c *SDKClient) RevokeInvitation(ctx context.Context, id string) (*Invitation, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/invitations/"+url.PathEscape(id)+"/revoke", nil)
	if err != nil {
		return nil, err
	}

	var inv Invitation
	if err := decodeJSON(resp, &inv, http.StatusOK); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ResolveInvitation returns the public view of a link. Unknown, expired,
// revoked and exhausted links all fail with invitation_invalid.
func (c *SDKClient) ResolveInvitation(ctx context.Context, code string) (*InvitationPreview, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/invite/"+url.PathEscape(code), nil)
	if err != nil {
		return nil, err
	}

	var preview InvitationPreview
	if err := decodeJSON(resp, &preview, http.StatusOK); err != nil {
		return nil, err
	}
	return &preview, nil
}

// StartSessionFromInvitation consumes one use of the link and starts a
// session at the welcome step.
func (c *SDKClient) StartSessionFromInvitation(ctx context.Context, code string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/invite/"+url.PathEscape(code)+"/sessions", nil)
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := decodeJSON(resp, &sess, http.StatusCreated); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Limit > 0 {
		q.Set("limit", fmt.Sprint(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", fmt.Sprint(o.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
