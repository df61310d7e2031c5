package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Classify(t *testing.T) {
	var gotPath, gotAuth, gotInput string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var payload struct {
			Inputs string `json:"inputs"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		gotInput = payload.Inputs

		w.Write([]byte(`[[{"label":"neutral","score":0.2},{"label":"positive","score":0.75},{"label":"negative","score":0.05}]]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "acme/finbert", "secret", time.Second)
	result, err := client.Classify(context.Background(), "Stocks rally on earnings")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Label != "positive" || result.Score != 0.75 {
		t.Errorf("Expected positive/0.75, got %+v", result)
	}
	if gotPath != "/acme/finbert" {
		t.Errorf("Expected model path, got %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Expected bearer token, got %s", gotAuth)
	}
	if gotInput != "Stocks rally on earnings" {
		t.Errorf("Expected input text, got %s", gotInput)
	}
}

func TestClient_ClassifyFlatResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"label":"NEGATIVE","score":1.2}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", time.Second)
	result, err := client.Classify(context.Background(), "Stocks slump")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Label != "negative" {
		t.Errorf("Expected lower-cased label, got %s", result.Label)
	}
	if result.Score != 1 {
		t.Errorf("Expected score clamped to 1, got %f", result.Score)
	}
}

func TestClient_ClassifyErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"Model is loading"}`))
		},
		"unexpected body": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"bad input"}`))
		},
		"empty list": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			client := NewClient(server.URL, "", "", time.Second)
			if _, err := client.Classify(context.Background(), "text"); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	client := NewClient("http://127.0.0.1:0", "", "", time.Second)
	if _, err := client.Classify(context.Background(), "   "); err == nil {
		t.Error("Expected an error for empty text")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("word ", 1000)
	got := truncate(long, maxInputChars)

	if len(got) > maxInputChars {
		t.Errorf("Expected at most %d chars, got %d", maxInputChars, len(got))
	}
	if strings.HasSuffix(got, "wor") {
		t.Errorf("Expected cut on a word boundary, got suffix %q", got[len(got)-5:])
	}

	if truncate("short", 10) != "short" {
		t.Error("Expected short input unchanged")
	}
}
