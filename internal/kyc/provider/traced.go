package provider

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Observer receives the latency and outcome of every provider call.
type Observer interface {
	ObserveProviderCall(op, outcome string, d time.Duration)
}

const tracerName = "github.com/aussiebroadwan/verity/internal/kyc/provider"

// Traced wraps every provider in set with an OpenTelemetry span and reports
// call latency to obs. obs may be nil.
func Traced(set Set, obs Observer) Set {
	t := &traced{inner: set, obs: obs, tracer: otel.Tracer(tracerName)}
	return Set{
		Reader:   t,
		Verifier: t,
		Faces:    t,
		Liveness: t,
		OTP:      t,
		Geo:      t,
		Fraud:    t,
	}
}

type traced struct {
	inner  Set
	obs    Observer
	tracer trace.Tracer
}

func (t *traced) start(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, "provider."+op, trace.WithSpanKind(trace.SpanKindClient))
	began := time.Now()

	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if IsRetryable(err) {
				outcome = "retryable"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("provider.outcome", outcome))
		span.End()

		if t.obs != nil {
			t.obs.ObserveProviderCall(op, outcome, time.Since(began))
		}
	}
}

func (t *traced) ReadDocument(ctx context.Context, img Image) (res OCRResult, err error) {
	ctx, done := t.start(ctx, "ocr")
	defer func() { done(err) }()
	return t.inner.Reader.ReadDocument(ctx, img)
}

func (t *traced) VerifyDocument(ctx context.Context, img Image, docType string) (score float64, err error) {
	ctx, done := t.start(ctx, "document_verify")
	defer func() { done(err) }()
	return t.inner.Verifier.VerifyDocument(ctx, img, docType)
}

func (t *traced) MatchFace(ctx context.Context, selfie, document Image) (score float64, err error) {
	ctx, done := t.start(ctx, "face_match")
	defer func() { done(err) }()
	return t.inner.Faces.MatchFace(ctx, selfie, document)
}

func (t *traced) DetectLiveness(ctx context.Context, capture Image) (res LivenessResult, err error) {
	ctx, done := t.start(ctx, "liveness")
	defer func() { done(err) }()
	return t.inner.Liveness.DetectLiveness(ctx, capture)
}

func (t *traced) SendOTP(ctx context.Context, phone string) (res OTPResult, err error) {
	ctx, done := t.start(ctx, "otp_send")
	defer func() { done(err) }()
	return t.inner.OTP.SendOTP(ctx, phone)
}

func (t *traced) VerifyOTP(ctx context.Context, phone, code string) (res OTPResult, err error) {
	ctx, done := t.start(ctx, "otp_verify")
	defer func() { done(err) }()
	return t.inner.OTP.VerifyOTP(ctx, phone, code)
}

func (t *traced) Geocode(ctx context.Context, lat, lon float64) (loc Location, err error) {
	ctx, done := t.start(ctx, "geocode")
	defer func() { done(err) }()
	return t.inner.Geo.Geocode(ctx, lat, lon)
}

func (t *traced) MatchAddress(ctx context.Context, declared, resolved string) (m AddressMatch, err error) {
	ctx, done := t.start(ctx, "address_match")
	defer func() { done(err) }()
	return t.inner.Geo.MatchAddress(ctx, declared, resolved)
}

func (t *traced) DeviceScore(ctx context.Context, dev DeviceContext) (score float64, ok bool, err error) {
	ctx, done := t.start(ctx, "device_score")
	defer func() { done(err) }()
	return t.inner.Fraud.DeviceScore(ctx, dev)
}
