package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected metrics handler to return 200, got %d", rr.Code)
	}
	return rr.Body.String()
}

func TestCollectorRecordsRunMetrics(t *testing.T) {
	collector, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector returned error: %v", err)
	}

	collector.ItemsParsed("cnbc", 5)
	collector.ItemsDropped("cnbc", "stale", 2)
	collector.ItemsDropped("cnbc", "unparseable", 0)
	collector.EnrichmentFailed("summarize")
	collector.ArticlesEmitted("cnbc", 3)
	collector.RunFinished("cnbc", "success", 2*time.Second)
	collector.ObserveRequest(http.MethodGet, "/health", http.StatusOK)

	body := scrape(t, collector)

	expected := []string{
		`fincomb_feed_items_parsed_total{provider="cnbc"} 5`,
		`fincomb_feed_items_dropped_total{provider="cnbc",reason="stale"} 2`,
		`fincomb_enrichment_failures_total{stage="summarize"} 1`,
		`fincomb_articles_emitted_total{provider="cnbc"} 3`,
		`fincomb_runs_total{outcome="success",provider="cnbc"} 1`,
		`fincomb_run_duration_seconds_count{provider="cnbc"} 1`,
		`fincomb_http_requests_total{method="GET",path="/health",status="200"} 1`,
	}
	for _, e := range expected {
		if !strings.Contains(body, e) {
			t.Errorf("metric %q not recorded, body=%q", e, body)
		}
	}

	if strings.Contains(body, `reason="unparseable"`) {
		t.Error("expected zero drops not to create a series")
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	first, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector returned error: %v", err)
	}
	second, err := NewCollector()
	if err != nil {
		t.Fatalf("second NewCollector returned error: %v", err)
	}

	first.ArticlesEmitted("wsj", 1)

	if strings.Contains(scrape(t, second), `provider="wsj"`) {
		t.Error("expected private registries not to share series")
	}
}
