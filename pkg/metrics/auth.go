package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "fruitnut"

// Auth event names.
const (
	AuthSignUp     = "sign_up"
	AuthSignIn     = "sign_in"
	AuthSignOut    = "sign_out"
	AuthRefresh    = "refresh"
	AuthSelectRole = "select_role"
)

// AuthMetrics counts auth provider operations by outcome.
type AuthMetrics struct {
	events *prometheus.CounterVec
}

// NewAuthMetrics registers the auth metrics on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Auth operations by event and outcome.",
	}, []string{"event", "outcome"})
	reg.MustRegister(events)
	return &AuthMetrics{events: events}
}

// Record counts one auth operation; a nil err is a success.
func (a *AuthMetrics) Record(event string, err error) {
	if a == nil || a.events == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	a.events.WithLabelValues(normalizeLabel(event), outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
