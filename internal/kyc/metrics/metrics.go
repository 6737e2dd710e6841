package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the KYC workflow. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	// Step completions and retakes by step name
	StepTransitions *prometheus.CounterVec

	// Final decisions by status and who decided
	Decisions *prometheus.CounterVec

	// System risk score distribution
	RiskScore prometheus.Histogram

	// Invitation consume attempts by result: "ok", "rejected"
	InvitationConsumes *prometheus.CounterVec

	// Upstream provider latency by operation and outcome
	ProviderLatency *prometheus.HistogramVec

	// Sessions created by origin: "internal", "invitation"
	SessionsStarted *prometheus.CounterVec
}

// New registers every collector on reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		StepTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verity_session_step_transitions_total",
			Help: "Session step transitions by step and kind",
		}, []string{"step", "kind"}), // kind: "advance", "retake"

		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verity_session_decisions_total",
			Help: "Session decisions by status and decider",
		}, []string{"status", "decided_by"}),

		RiskScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "verity_risk_score",
			Help:    "Distribution of computed system risk scores",
			Buckets: []float64{40, 50, 60, 70, 80, 85, 90, 95, 100},
		}),

		InvitationConsumes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verity_invitation_consumes_total",
			Help: "Invitation consume attempts by result",
		}, []string{"result"}),

		ProviderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verity_provider_call_duration_seconds",
			Help:    "Duration of verification provider calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"op", "outcome"}),

		SessionsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verity_sessions_started_total",
			Help: "Sessions created by origin",
		}, []string{"origin"}),
	}
}

func (m *Metrics) IncStep(step, kind string) {
	if m != nil {
		m.StepTransitions.WithLabelValues(step, kind).Inc()
	}
}

func (m *Metrics) IncDecision(status, decidedBy string) {
	if m != nil {
		m.Decisions.WithLabelValues(status, decidedBy).Inc()
	}
}

func (m *Metrics) ObserveRiskScore(score float64) {
	if m != nil {
		m.RiskScore.Observe(score)
	}
}

func (m *Metrics) IncInvitationConsume(result string) {
	if m != nil {
		m.InvitationConsumes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncSessionStarted(origin string) {
	if m != nil {
		m.SessionsStarted.WithLabelValues(origin).Inc()
	}
}

// ObserveProviderCall records the duration of a provider call.
func (m *Metrics) ObserveProviderCall(op, outcome string, d time.Duration) {
	if m != nil {
		m.ProviderLatency.WithLabelValues(op, outcome).Observe(d.Seconds())
	}
}
