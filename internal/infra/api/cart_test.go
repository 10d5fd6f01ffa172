package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/storefront/internal/core/cart"
	"github.com/vietddude/storefront/internal/core/domain"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

func recordingServer(t *testing.T, respond any) (*CartClient, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := recordedRequest{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&req.body)
		}
		requests = append(requests, req)
		json.NewEncoder(w).Encode(respond)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, nil)
	return NewCartClient(client), &requests
}

func TestFetchCart(t *testing.T) {
	items := []domain.LineItem{
		{Product: domain.Product{ID: "p1", Title: "Mug", Price: 9.5, Stock: 3}, Quantity: 2},
	}
	cc, requests := recordingServer(t, items)

	got, err := cc.FetchCart(context.Background())
	if err != nil {
		t.Fatalf("FetchCart failed: %v", err)
	}
	if len(got) != 1 || got[0].Product.ID != "p1" || got[0].Quantity != 2 {
		t.Errorf("unexpected cart %+v", got)
	}

	req := (*requests)[0]
	if req.method != http.MethodGet || req.path != "/cart" {
		t.Errorf("request = %s %s, want GET /cart", req.method, req.path)
	}
}

func TestCommitAdd(t *testing.T) {
	cc, requests := recordingServer(t, map[string]string{})

	if err := cc.CommitAdd(context.Background(), "p1", 3); err != nil {
		t.Fatalf("CommitAdd failed: %v", err)
	}

	req := (*requests)[0]
	if req.method != http.MethodPost || req.path != "/cart/p1" {
		t.Errorf("request = %s %s, want POST /cart/p1", req.method, req.path)
	}
	if qty, ok := req.body["quantity"].(float64); !ok || qty != 3 {
		t.Errorf("body = %v, want quantity 3", req.body)
	}
}

func TestCommitRemove(t *testing.T) {
	cc, requests := recordingServer(t, map[string]string{})

	if err := cc.CommitRemove(context.Background(), "p1"); err != nil {
		t.Fatalf("CommitRemove failed: %v", err)
	}

	req := (*requests)[0]
	if req.method != http.MethodPatch || req.path != "/cart/remove/p1" {
		t.Errorf("request = %s %s, want PATCH /cart/remove/p1", req.method, req.path)
	}
}

func TestCommitUpdate(t *testing.T) {
	tests := []struct {
		direction cart.Direction
		wantPath  string
	}{
		{cart.Increase, "/cart/increase/p1"},
		{cart.Decrease, "/cart/decrease/p1"},
	}

	for _, tt := range tests {
		cc, requests := recordingServer(t, map[string]string{})

		if err := cc.CommitUpdate(context.Background(), "p1", tt.direction); err != nil {
			t.Fatalf("CommitUpdate failed: %v", err)
		}

		req := (*requests)[0]
		if req.method != http.MethodPatch || req.path != tt.wantPath {
			t.Errorf("request = %s %s, want PATCH %s", req.method, req.path, tt.wantPath)
		}
	}
}
