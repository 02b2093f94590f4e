package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSanitizeSite(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"players site", "http://pesdb.net/pes2019/", "pesdb.net"},
		{"leagues site", "https://www.PESMaster.com/pes-2019/", "www.pesmaster.com"},
		{"no scheme", "pesdb.net/pes2019", "pesdb.net"},
		{"host with port", "127.0.0.1:8080", "127.0.0.1"},
		{"invalid url", "http://%", "unknown"},
		{"empty string", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeSite(tc.input); got != tc.expected {
				t.Errorf("SanitizeSite(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestInit(t *testing.T) {
	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if crawlerFetchesTotal == nil || crawlerRecordsTotal == nil ||
		crawlerPagesTotal == nil || crawlerBackoffSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveCrawlerMetrics(t *testing.T) {
	ObserveFetch("metrics-test.example", "ok", 512)
	ObserveFetch("metrics-test.example", "connection_refused", 0)
	ObserveBackoff("metrics-test.example", "connection_refused", time.Minute)
	ObserveRecord("metrics-test-entity", true)
	ObserveRecord("metrics-test-entity", false)
	ObserveRecord("metrics-test-entity", false)
	ObservePage("metrics-test-crawl")

	if val := testutil.ToFloat64(crawlerFetchesTotal.WithLabelValues("metrics-test.example", "ok")); val != 1 {
		t.Errorf("expected one ok fetch, got %f", val)
	}
	if val := testutil.ToFloat64(crawlerBytesTotal.WithLabelValues("metrics-test.example")); val != 512 {
		t.Errorf("expected 512 bytes, got %f", val)
	}
	if val := testutil.ToFloat64(crawlerRecordsTotal.WithLabelValues("metrics-test-entity", "existing")); val != 2 {
		t.Errorf("expected two existing records, got %f", val)
	}
	if val := testutil.ToFloat64(crawlerPagesTotal.WithLabelValues("metrics-test-crawl")); val != 1 {
		t.Errorf("expected one page, got %f", val)
	}
	if val := testutil.CollectAndCount(crawlerBackoffSeconds); val <= 0 {
		t.Errorf("expected backoff histogram to be observed, got %d", val)
	}
}

// Fuzz test for SanitizeSite.
func FuzzSanitizeSite(f *testing.F) {
	testcases := []string{"http://pesdb.net", "https://www.pesmaster.com", "ftp://example.com"}
	for _, tc := range testcases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		if SanitizeSite(orig) == "" {
			t.Errorf("SanitizeSite(%q) returned an empty string", orig)
		}
	})
}
