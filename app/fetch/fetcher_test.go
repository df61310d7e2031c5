package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
)

func fastRetry(n int) RetryPolicy {
	return RetryPolicy{MaxRetries: n, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, BackoffFactor: 2}
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "TestAgent/1.0", 5*time.Second, NoRetry())
	data, err := fetcher.Fetch(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "<rss></rss>" {
		t.Errorf("Unexpected body: %s", data)
	}
	if gotUA != "TestAgent/1.0" {
		t.Errorf("Expected User-Agent 'TestAgent/1.0', got: %s", gotUA)
	}
}

func TestFetcher_StatusErrorIsTransportError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "TestAgent/1.0", 5*time.Second, fastRetry(3))
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var transportErr *feed.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *feed.TransportError, got: %v", err)
	}
	if transportErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got: %d", transportErr.StatusCode)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected 404 not to be retried, got %d calls", calls)
	}
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "TestAgent/1.0", 5*time.Second, fastRetry(3))
	data, err := fetcher.Fetch(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("Unexpected body: %s", data)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestFetcher_RetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "TestAgent/1.0", 5*time.Second, fastRetry(2))
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var transportErr *feed.TransportError
	if !errors.As(err, &transportErr) || transportErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("Expected 502 transport error, got: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("Expected 1 attempt + 2 retries, got %d calls", calls)
	}
}

func TestFetcher_FetchHTMLRejectsNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "TestAgent/1.0", 5*time.Second, NoRetry())
	_, err := fetcher.FetchHTML(context.Background(), server.URL)

	var transportErr *feed.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *feed.TransportError, got: %v", err)
	}
}

func TestFetcher_EmptyURL(t *testing.T) {
	fetcher := NewFetcher(nil, "TestAgent/1.0", time.Second, NoRetry())
	if _, err := fetcher.Fetch(context.Background(), ""); err == nil {
		t.Error("Expected error for empty URL")
	}
}

func TestFetcher_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	fetcher := NewFetcher(server.Client(), "TestAgent/1.0", 5*time.Second, fastRetry(3))
	_, err := fetcher.Fetch(ctx, server.URL)

	var transportErr *feed.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *feed.TransportError, got: %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded to be wrapped, got: %v", err)
	}
}
