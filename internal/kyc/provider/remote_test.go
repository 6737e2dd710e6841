package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *provider.Remote {
	t.Helper()

	sk, err := cryptox.NewSigningKey()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("verity-1", sk.PrivatePEM)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(signer.PublicJWK()))
	verifier := jwtx.NewVerifierEdDSA(keys, "verity", []string{"gateway"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, err := verifier.Verify(token); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return provider.NewRemote(srv.URL, signer, "verity", "gateway", 2*time.Second)
}

func TestRemoteCalls(t *testing.T) {
	ctx := context.Background()

	r := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/documents/ocr":
			_, _ = w.Write([]byte(`{"documentNumber":"P123","firstName":"JANE","confidence":0.91}`))
		case "/v1/faces/match":
			var body map[string]json.RawMessage
			_ = json.NewDecoder(r.Body).Decode(&body)
			if _, ok := body["selfie"]; !ok {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"score":0.88}`))
		case "/v1/geo/match":
			_, _ = w.Write([]byte(`{"matched":true,"confidence":0.9}`))
		case "/v1/sms":
			w.WriteHeader(http.StatusAccepted)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ocr, err := r.ReadDocument(ctx, provider.Image{Data: []byte{1, 2, 3}, ContentType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, "P123", ocr.DocumentNumber)
	require.Equal(t, 0.91, ocr.Confidence)

	score, err := r.MatchFace(ctx, provider.Image{Data: []byte{1}}, provider.Image{Data: []byte{2}})
	require.NoError(t, err)
	require.Equal(t, 0.88, score)

	m, err := r.MatchAddress(ctx, "1 Main St", "1 Main Street")
	require.NoError(t, err)
	require.True(t, m.Matched)

	require.NoError(t, r.Deliver(ctx, "+61412345678", "123456"))
}

func TestRemoteErrorMapping(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		status    int
		kind      provider.Kind
		retryable bool
	}{
		{http.StatusServiceUnavailable, provider.KindOutage, true},
		{http.StatusTooManyRequests, provider.KindRateLimited, true},
		{http.StatusUnprocessableEntity, provider.KindRejected, false},
		{http.StatusBadRequest, provider.KindBadData, false},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			r := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":"x","message":"gateway said no"}`))
			})

			_, err := r.VerifyDocument(ctx, provider.Image{}, "passport")
			var pe *provider.Error
			require.ErrorAs(t, err, &pe)
			require.Equal(t, tc.kind, pe.Kind)
			require.Equal(t, tc.retryable, pe.Retryable)
			require.Equal(t, "gateway said no", pe.Message)
		})
	}

	t.Run("unsigned requests are refused", func(t *testing.T) {
		r := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})
		r.Signer = nil

		_, err := r.DetectLiveness(ctx, provider.Image{})
		var pe *provider.Error
		require.ErrorAs(t, err, &pe)
		require.Equal(t, provider.KindAuth, pe.Kind)
	})

	t.Run("garbage body", func(t *testing.T) {
		r := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		})
		_, err := r.Geocode(ctx, 1, 2)
		var pe *provider.Error
		require.ErrorAs(t, err, &pe)
		require.Equal(t, provider.KindBadData, pe.Kind)
	})

	t.Run("slow gateway honours context", func(t *testing.T) {
		r := newGateway(t, func(w http.ResponseWriter, req *http.Request) {
			select {
			case <-req.Context().Done():
			case <-time.After(time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, _, err := r.DeviceScore(ctx, provider.DeviceContext{UserAgent: "x"})
		require.True(t, provider.IsRetryable(err))
	})
}
