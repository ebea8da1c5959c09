package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestServeHealthConnected(t *testing.T) {
	h := NewHandler(func(ctx context.Context) error { return nil }, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Server is running" || body.Database != "connected" {
		t.Errorf("body = %+v", body)
	}
}

func TestServeHealthDatabaseDown(t *testing.T) {
	h := NewHandler(func(ctx context.Context) error { return errors.New("no reachable servers") }, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Database != "disconnected" {
		t.Errorf("database = %q, want disconnected", body.Database)
	}
}
