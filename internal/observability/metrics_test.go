package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/workbook", "200", time.Millisecond)
	m.ObserveAggregateOperation("Workbook.Week.Delete", "success", time.Millisecond)
	m.IncAggregateConflict("Workbook.Week.Delete")
	m.IncSessionEvent("login")
	m.ApiInflightInc()
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have no registry")
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestAggregateMetrics(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("Workbook.Week.Delete", "success", 3*time.Millisecond)
	m.ObserveAggregateOperation("Workbook.Week.Delete", "success", 4*time.Millisecond)
	m.ObserveAggregateOperation("Workbook.Week.Delete", "dry_run", time.Millisecond)
	m.IncAggregateConflict("Workbook.Activity.Update")

	if got := testutil.ToFloat64(m.aggregateOps.WithLabelValues("Workbook.Week.Delete", "success")); got != 2 {
		t.Fatalf("success count: %v", got)
	}
	if got := testutil.ToFloat64(m.aggregateOps.WithLabelValues("Workbook.Week.Delete", "dry_run")); got != 1 {
		t.Fatalf("dry_run count: %v", got)
	}
	if got := testutil.ToFloat64(m.aggregateConflicts.WithLabelValues("Workbook.Activity.Update")); got != 1 {
		t.Fatalf("conflicts: %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveAPI("POST", "/api/workbook/:id/week", "201", 20*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `workbook_api_requests_total{method="POST",route="/api/workbook/:id/week",status="201"} 1`) {
		t.Fatalf("missing api counter in:\n%s", body)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" x-api-key = abc ,bad, =v,k= ")
	if len(got) != 1 || got["x-api-key"] != "abc" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty input should give nil")
	}
}
