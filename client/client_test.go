package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSendsUserIDHeader(t *testing.T) {
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("X-User-Id")
		writeJSON(w, 200, fullResult("d-1", "t-1"))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithUserID("u-9"))
	if _, err := c.Analyze(context.Background(), "猫の夢"); err != nil {
		t.Fatal(err)
	}
	if gotUser != "u-9" {
		t.Fatalf("X-User-Id=%q", gotUser)
	}
}

func TestClientRateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		writeJSON(w, http.StatusTooManyRequests,
			map[string]any{"error": "リクエストが多すぎます", "code": 429})
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).Analyze(context.Background(), "猫の夢")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v", err)
	}
	if apiErr.Status != http.StatusTooManyRequests || apiErr.RetryAfterSeconds != 42 {
		t.Fatalf("apiErr=%+v", apiErr)
	}
	if apiErr.Message == "" {
		t.Fatal("error body message must be surfaced")
	}
}

func TestClientGetDream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dreams/d-1" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("share") != "t-1" {
			writeJSON(w, 404, map[string]any{"error": "dream not found", "code": 404})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"dreamId": "d-1", "content": "猫の夢", "shareToken": "t-1",
		})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	rec, err := c.GetDream(context.Background(), "d-1", "t-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Content != "猫の夢" {
		t.Fatalf("content=%q", rec.Content)
	}

	_, err = c.GetDream(context.Background(), "d-1", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("err=%v", err)
	}
}
