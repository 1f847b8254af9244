package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.SessionsActive == nil || r.SessionsTotal == nil || r.SessionDuration == nil {
		t.Error("session metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestSessionLifecycle(t *testing.T) {
	r := NewRegistry()

	r.SessionStarted()
	r.SessionStarted()
	if v := gaugeValue(t, r.SessionsActive); v != 2 {
		t.Errorf("active = %v, want 2", v)
	}

	r.SessionEnded(ResultOK, 3*time.Second)
	r.SessionRefused(ResultNoPTY)

	if v := gaugeValue(t, r.SessionsActive); v != 1 {
		t.Errorf("active = %v, want 1", v)
	}
	if v := counterValue(t, r, ResultOK); v != 1 {
		t.Errorf("ok sessions = %v, want 1", v)
	}
	if v := counterValue(t, r, ResultNoPTY); v != 1 {
		t.Errorf("no_pty sessions = %v, want 1", v)
	}

	var m dto.Metric
	if err := r.SessionDuration.Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.Histogram.GetSampleCount() != 1 || m.Histogram.GetSampleSum() != 3 {
		t.Errorf("duration histogram = %d samples, sum %v", m.Histogram.GetSampleCount(), m.Histogram.GetSampleSum())
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.CatalogStars.Set(37)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(body), "starmap_catalog_stars 37") {
		t.Errorf("expected catalog gauge in exposition, got:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("expected Go runtime metrics")
	}
}

func gaugeValue(t *testing.T, g interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.Gauge.GetValue()
}

func counterValue(t *testing.T, r *Registry, result string) float64 {
	t.Helper()
	c, err := r.SessionsTotal.GetMetricWithLabelValues(result)
	if err != nil {
		t.Fatalf("get metric: %v", err)
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.Counter.GetValue()
}
