package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// HarvestMetrics tracks volunteer signups and logged fruit.
type HarvestMetrics struct {
	signups    *prometheus.CounterVec
	donatedLbs *prometheus.CounterVec
	donations  *prometheus.CounterVec
}

// NewHarvestMetrics registers the harvest metrics on the provided registerer.
func NewHarvestMetrics(reg prometheus.Registerer) *HarvestMetrics {
	if reg == nil {
		return &HarvestMetrics{}
	}
	signups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shift_signups_total",
		Help:      "Volunteer shift signup attempts by outcome.",
	}, []string{"outcome"})
	donatedLbs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donated_lbs_total",
		Help:      "Pounds of fruit logged as donated, by fruit.",
	}, []string{"fruit"})
	donations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donation_transitions_total",
		Help:      "Donation status transitions by resulting status.",
	}, []string{"status"})
	reg.MustRegister(signups, donatedLbs, donations)
	return &HarvestMetrics{signups: signups, donatedLbs: donatedLbs, donations: donations}
}

// Signup counts a signup attempt. Outcome is "accepted", "full" or "rejected".
func (h *HarvestMetrics) Signup(outcome string) {
	if h == nil || h.signups == nil {
		return
	}
	h.signups.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// Donated adds logged pounds for a fruit.
func (h *HarvestMetrics) Donated(fruit string, lbs decimal.Decimal) {
	if h == nil || h.donatedLbs == nil || !lbs.IsPositive() {
		return
	}
	h.donatedLbs.WithLabelValues(normalizeLabel(fruit)).Add(lbs.InexactFloat64())
}

// Transition counts a donation reaching status.
func (h *HarvestMetrics) Transition(status string) {
	if h == nil || h.donations == nil {
		return
	}
	h.donations.WithLabelValues(normalizeLabel(status)).Inc()
}
