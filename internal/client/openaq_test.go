package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestOpenAQClient_LatestPM25 verifies a successful lookup extracts the pm25
// measurement rounded to two decimals.
func TestOpenAQClient_LatestPM25(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("coordinates") == "" || q.Get("radius") != "50000" || q.Get("limit") != "1" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"measurements":[
			{"parameter":"o3","value":12.0},
			{"parameter":"pm25","value":18.3456}
		]}]}`))
	}))
	defer srv.Close()

	c := NewOpenAQClient(srv.URL, 50000, time.Second)
	got, err := c.LatestPM25(context.Background(), 19.43, -99.13)
	if err != nil {
		t.Fatalf("LatestPM25() error = %v", err)
	}
	if got != 18.35 {
		t.Errorf("LatestPM25() = %v, want 18.35", got)
	}
}

// TestOpenAQClient_NoResults verifies an empty result list maps to
// ErrNoMeasurement, not a parse failure.
func TestOpenAQClient_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAQClient(srv.URL, 50000, time.Second)
	_, err := c.LatestPM25(context.Background(), 19.43, -99.13)
	if !errors.Is(err, ErrNoMeasurement) {
		t.Errorf("error = %v, want ErrNoMeasurement", err)
	}
}

// TestOpenAQClient_NoPM25Parameter verifies a station without a pm25
// measurement maps to ErrNoMeasurement.
func TestOpenAQClient_NoPM25Parameter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"measurements":[{"parameter":"o3","value":12.0}]}]}`))
	}))
	defer srv.Close()

	c := NewOpenAQClient(srv.URL, 50000, time.Second)
	_, err := c.LatestPM25(context.Background(), 19.43, -99.13)
	if !errors.Is(err, ErrNoMeasurement) {
		t.Errorf("error = %v, want ErrNoMeasurement", err)
	}
}

// TestOpenAQClient_UpstreamError verifies non-success statuses map to
// ErrUpstreamFailure.
func TestOpenAQClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOpenAQClient(srv.URL, 50000, time.Second)
	_, err := c.LatestPM25(context.Background(), 19.43, -99.13)
	if !errors.Is(err, ErrUpstreamFailure) {
		t.Errorf("error = %v, want ErrUpstreamFailure", err)
	}
}

// TestOpenAQClient_Timeout verifies a slow provider returns an error once the
// client timeout elapses, instead of hanging.
func TestOpenAQClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewOpenAQClient(srv.URL, 50000, 10*time.Millisecond)
	start := time.Now()
	_, err := c.LatestPM25(context.Background(), 19.43, -99.13)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("timed out after %v, want well under the handler delay", elapsed)
	}
}
