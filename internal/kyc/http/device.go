package http

import (
	"net/http"

	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/pkg/httpx"
)

// deviceContext collects the request attributes the fraud signal scores.
func deviceContext(r *http.Request) provider.DeviceContext {
	return provider.DeviceContext{
		UserAgent:      r.UserAgent(),
		IP:             httpx.ClientIP(r),
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}
}
