package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/pagewire/pkg/adapter"
	"github.com/vango-dev/pagewire/pkg/assets"
	"github.com/vango-dev/pagewire/pkg/pagewiretest"
	"github.com/vango-dev/pagewire/pkg/server"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsObserver(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.ObserveVisit("full", 3*time.Millisecond)
	m.ObserveVisit("full", time.Millisecond)
	m.ObserveVisit("partial", time.Millisecond)
	m.ObserveVersionMismatch()
	m.ObserveRedirect(http.StatusSeeOther)

	if got := metricCounterValue(t, m.visitsTotal.WithLabelValues("full")); got != 2 {
		t.Errorf("visits_total(full)=%v, want 2", got)
	}
	if got := metricCounterValue(t, m.visitsTotal.WithLabelValues("partial")); got != 1 {
		t.Errorf("visits_total(partial)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, m.renderDuration.WithLabelValues("full")); got != 2 {
		t.Errorf("render_duration_seconds(full) count=%v, want 2", got)
	}
	if got := metricCounterValue(t, m.versionMismatch); got != 1 {
		t.Errorf("version_mismatches_total=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.redirectsTotal.WithLabelValues("303")); got != 1 {
		t.Errorf("redirects_total(303)=%v, want 1", got)
	}
}

func TestMetricsWithPages(t *testing.T) {
	reg := adapter.NewRegistry()
	if err := reg.Register(adapter.Define("test", nil)); err != nil {
		t.Fatal(err)
	}
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("demo"))

	cfg := server.DefaultConfig("test")
	cfg.Registry = reg
	cfg.Version = assets.StaticVersion("v2")
	cfg.Observer = m
	pages, err := server.New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	h := m.Handler(pages.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Render(w, r, "landing", nil)
	})))

	for _, req := range []*http.Request{
		pagewiretest.NewRequest(http.MethodGet, "/").Build(),
		pagewiretest.NewRequest(http.MethodGet, "/").Version("v2").Build(),
		pagewiretest.NewRequest(http.MethodGet, "/").Version("v1").Build(),
	} {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := metricCounterValue(t, m.visitsTotal.WithLabelValues(server.KindBare)); got != 1 {
		t.Errorf("visits_total(bare)=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.visitsTotal.WithLabelValues(server.KindFull)); got != 1 {
		t.Errorf("visits_total(full)=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.versionMismatch); got != 1 {
		t.Errorf("version_mismatches_total=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("visit", "3xx")); got != 1 {
		t.Errorf("requests_total(visit,3xx)=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("bare", "2xx")); got != 1 {
		t.Errorf("requests_total(bare,2xx)=%v, want 1", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "2xx", 200: "2xx", 303: "3xx", 404: "4xx", 503: "5xx"}
	for in, want := range tests {
		if got := statusClass(in); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", in, got, want)
		}
	}
}
