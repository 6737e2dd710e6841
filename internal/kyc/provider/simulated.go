package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
)

// SimulatedOTPCode is the code the simulated OTP sender accepts.
const SimulatedOTPCode = "123456"

// Simulated is a deterministic stand-in for every provider. It is used in
// development and tests; the scores are fields so tests can push a session
// into a particular risk tier.
type Simulated struct {
	Authenticity  float64
	FaceMatch     float64
	Liveness      LivenessResult
	OCR           OCRResult
	AddressScore  float64
	ResolvedPlace string

	// Err, when set, is returned from every call.
	Err error

	// Delay is slept (honouring ctx) before each call.
	Delay time.Duration

	mu   sync.Mutex
	sent map[string]time.Time
}

// NewSimulated returns providers tuned to the reference green scenario.
func NewSimulated() *Simulated {
	return &Simulated{
		Authenticity: 0.94,
		FaceMatch:    0.92,
		Liveness: LivenessResult{
			LivenessDetected: true,
			PulseDetected:    true,
			DepthMapVerified: true,
			Confidence:       0.98,
		},
		OCR: OCRResult{
			DocumentNumber: "X1234567",
			FirstName:      "JANE",
			LastName:       "CITIZEN",
			DateOfBirth:    "1990-01-01",
			ExpiryDate:     "2032-01-01",
			Confidence:     0.97,
		},
		AddressScore: 0.85,
	}
}

// Set returns s behind every provider interface.
func (s *Simulated) Set() Set {
	return Set{
		Reader:   s,
		Verifier: s,
		Faces:    s,
		Liveness: s,
		OTP:      s,
		Geo:      s,
		Fraud:    s,
	}
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Wrap("simulated", ctx.Err())
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return Wrap("simulated", err)
	}
	return s.Err
}

func (s *Simulated) ReadDocument(ctx context.Context, _ Image) (OCRResult, error) {
	if err := s.wait(ctx); err != nil {
		return OCRResult{}, err
	}
	return s.OCR, nil
}

func (s *Simulated) VerifyDocument(ctx context.Context, _ Image, _ string) (float64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	return s.Authenticity, nil
}

func (s *Simulated) MatchFace(ctx context.Context, _, _ Image) (float64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	return s.FaceMatch, nil
}

func (s *Simulated) DetectLiveness(ctx context.Context, _ Image) (LivenessResult, error) {
	if err := s.wait(ctx); err != nil {
		return LivenessResult{}, err
	}
	return s.Liveness, nil
}

func (s *Simulated) SendOTP(ctx context.Context, phone string) (OTPResult, error) {
	if err := s.wait(ctx); err != nil {
		return OTPResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = make(map[string]time.Time)
	}
	exp := time.Now().Add(10 * time.Minute)
	s.sent[phone] = exp
	return OTPResult{ExpiresAt: exp}, nil
}

func (s *Simulated) VerifyOTP(ctx context.Context, phone, code string) (OTPResult, error) {
	if err := s.wait(ctx); err != nil {
		return OTPResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sent[phone]; !ok {
		return OTPResult{}, ErrNoChallenge
	}
	if code != SimulatedOTPCode {
		return OTPResult{Verified: false}, nil
	}
	delete(s.sent, phone)
	return OTPResult{Verified: true}, nil
}

func (s *Simulated) Geocode(ctx context.Context, lat, lon float64) (Location, error) {
	if err := s.wait(ctx); err != nil {
		return Location{}, err
	}
	addr := s.ResolvedPlace
	if addr == "" {
		addr = fmt.Sprintf("%.5f, %.5f", lat, lon)
	}
	return Location{Latitude: lat, Longitude: lon, Address: addr}, nil
}

// MatchAddress returns AddressScore unless ResolvedPlace is set, in which
// case it compares word overlap between the two addresses.
func (s *Simulated) MatchAddress(ctx context.Context, declared, resolved string) (AddressMatch, error) {
	if err := s.wait(ctx); err != nil {
		return AddressMatch{}, err
	}
	score := s.AddressScore
	if s.ResolvedPlace != "" {
		score = tokenOverlap(declared, resolved)
	}
	return AddressMatch{Matched: score >= 0.7, Confidence: score}, nil
}

// DeviceScore has no opinion; the risk baseline applies.
func (s *Simulated) DeviceScore(ctx context.Context, _ DeviceContext) (float64, bool, error) {
	if err := s.wait(ctx); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

func tokenOverlap(a, b string) float64 {
	split := func(s string) map[string]struct{} {
		out := make(map[string]struct{})
		for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			out[f] = struct{}{}
		}
		return out
	}
	ta, tb := split(a), split(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	common := 0
	for w := range ta {
		if _, ok := tb[w]; ok {
			common++
		}
	}
	return float64(common) / float64(max(len(ta), len(tb)))
}
