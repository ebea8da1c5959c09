package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mvarner/pulseboard/internal/app/system/token"
	"github.com/mvarner/pulseboard/internal/domain/models"
)

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Msg
}

func TestRequireAuthMissingToken(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if msg := decodeMsg(t, rec); msg != "Token required" {
		t.Errorf("msg = %q, want %q", msg, "Token required")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an invalid token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if msg := decodeMsg(t, rec); msg != "Invalid token" {
		t.Errorf("msg = %q, want %q", msg, "Invalid token")
	}
}

func TestRequireAuthExpiredTokenCollapsesToInvalid(t *testing.T) {
	svc := token.NewService("test-secret", time.Millisecond)
	tok, err := svc.Issue("id", "user@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an expired token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if msg := decodeMsg(t, rec); msg != "Invalid token" {
		t.Errorf("msg = %q, want %q", msg, "Invalid token")
	}
}

func TestRequireAuthAttachesClaims(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)
	tok, err := svc.Issue("507f1f77bcf86cd799439011", "user@example.com", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got *token.Claims
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentClaims(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil {
		t.Fatal("claims not attached to context")
	}
	if got.UserID() != "507f1f77bcf86cd799439011" || got.Role != models.RoleAdmin {
		t.Errorf("claims = %+v, want subject and admin role", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		claims *token.Claims
		want   int
	}{
		{"admin passes", &token.Claims{Role: models.RoleAdmin}, http.StatusNoContent},
		{"user rejected", &token.Claims{Role: models.RoleUser}, http.StatusForbidden},
		{"no claims rejected", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/seed", nil)
			if tt.claims != nil {
				r = WithTestClaims(r, tt.claims)
			}
			rec := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rec, r)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusForbidden {
				if msg := decodeMsg(t, rec); msg != "Admin access required" {
					t.Errorf("msg = %q, want %q", msg, "Admin access required")
				}
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"", ""},
		{"Basic abc123", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(r); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestWithTestClaims(t *testing.T) {
	claims := &token.Claims{
		Email:            "user@example.com",
		Role:             models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"},
	}
	r := WithTestClaims(httptest.NewRequest(http.MethodGet, "/", nil), claims)

	got, ok := CurrentClaims(r)
	if !ok || got != claims {
		t.Error("WithTestClaims did not attach the claims")
	}
}
