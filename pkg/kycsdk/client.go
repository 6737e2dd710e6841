package kycsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Verity KYC service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the organization bearer token. Customer calls leave it empty.
	Token string
}

// NewSDKClient creates a client without credentials.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithToken returns a copy of the client that authenticates as an
// organization operator.
func (c *SDKClient) WithToken(token string) *SDKClient {
	cp := *c
	cp.Token = token
	return &cp
}
