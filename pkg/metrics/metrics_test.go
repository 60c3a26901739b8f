package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("GET", "/api/v1/farmer/shifts", 200, 250*time.Millisecond)
	metrics.Observe("GET", "/api/v1/farmer/shifts", 200, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "fruitnut_http_requests_total", "route", "/api/v1/farmer/shifts"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "fruitnut_http_request_duration_seconds", "route", "/api/v1/farmer/shifts"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0.25 {
		t.Fatalf("expected duration sum > 0.25, got %f", got)
	}
}

func TestAuthMetricsSplitsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAuthMetrics(reg)
	metrics.Record(AuthSignIn, nil)
	metrics.Record(AuthSignIn, fmt.Errorf("bad password"))
	metrics.Record(AuthSignIn, fmt.Errorf("bad password"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "fruitnut_auth_events_total", "outcome", "failure"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 2 {
		t.Fatalf("expected failure=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "fruitnut_auth_events_total", "outcome", "success"); err != nil {
		t.Fatalf("fetch successes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
}

func TestHarvestMetricsIgnoresNonPositivePounds(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHarvestMetrics(reg)
	metrics.Donated("plum", decimal.RequireFromString("12.5"))
	metrics.Donated("plum", decimal.Zero)
	metrics.Signup("accepted")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "fruitnut_donated_lbs_total", "fruit", "plum"); err != nil {
		t.Fatalf("fetch donated: %v", err)
	} else if got != 12.5 {
		t.Fatalf("expected 12.5 lbs, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var h *HTTPMetrics
	h.Observe("GET", "/", 200, time.Millisecond)
	NewAuthMetrics(nil).Record(AuthSignOut, nil)
	NewHarvestMetrics(nil).Transition("completed")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
