package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, tokens)
	c.retry.InitialDelay = time.Millisecond
	c.retry.MaxDelay = 5 * time.Millisecond
	return c, server
}

func TestClient_AttachesAuthHeader(t *testing.T) {
	var gotHeader string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("x-auth-token")
		json.NewEncoder(w).Encode(map[string]string{})
	})

	c, _ := testClient(t, handler, staticToken("tok-123"))
	var out map[string]string
	if err := c.get(context.Background(), "/x", "/x", nil, &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotHeader != "tok-123" {
		t.Errorf("x-auth-token = %q, want %q", gotHeader, "tok-123")
	}
}

func TestClient_AnonymousOmitsAuthHeader(t *testing.T) {
	var hasHeader bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasHeader = r.Header["X-Auth-Token"]
		json.NewEncoder(w).Encode(map[string]string{})
	})

	c, _ := testClient(t, handler, staticToken(""))
	var out map[string]string
	if err := c.get(context.Background(), "/x", "/x", nil, &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hasHeader {
		t.Error("anonymous request carried an auth header")
	}
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"message":"try later"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"n": 7})
	})

	c, _ := testClient(t, handler, nil)
	var out map[string]int
	if err := c.get(context.Background(), "/n", "/n", nil, &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out["n"] != 7 {
		t.Errorf("n = %d, want 7", out["n"])
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClient_GetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"no such product"}`, http.StatusNotFound)
	})

	c, _ := testClient(t, handler, nil)
	err := c.get(context.Background(), "/x", "/x", nil, nil)

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Status != 404 || apiErr.Message != "no such product" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClient_MutationsNeverRetry(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"out of stock"}`, http.StatusInternalServerError)
	})

	c, _ := testClient(t, handler, nil)
	err := c.post(context.Background(), "/cart/{id}", "/cart/p1", map[string]int{"quantity": 1}, nil)

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Status != 500 {
		t.Errorf("status = %d, want 500", apiErr.Status)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want exactly 1 (no mutation retry)", calls.Load())
	}
}

func TestErrorMessage_FallsBackToBody(t *testing.T) {
	if msg := errorMessage([]byte(`{"message":"structured"}`)); msg != "structured" {
		t.Errorf("msg = %q, want %q", msg, "structured")
	}
	if msg := errorMessage([]byte("plain text failure")); msg != "plain text failure" {
		t.Errorf("msg = %q, want raw body", msg)
	}
}
