package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	sysauth "github.com/mvarner/pulseboard/internal/app/system/auth"
	"github.com/mvarner/pulseboard/internal/app/system/ratelimit"
	"github.com/mvarner/pulseboard/internal/app/system/token"
	userstore "github.com/mvarner/pulseboard/internal/app/store/users"
	"github.com/mvarner/pulseboard/internal/domain/models"
	"github.com/mvarner/pulseboard/internal/testutil"
)

// fakeUserStore keeps users in memory and mimics the store's sentinel
// errors, including the unique-email constraint.
type fakeUserStore struct {
	users map[string]*models.User // keyed by hex id
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*models.User)}
	for i := range users {
		u := users[i]
		f.users[u.ID.Hex()] = &u
	}
	return f
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id.Hex()]; ok {
		return u, nil
	}
	return nil, userstore.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, userstore.ErrNotFound
}

func (f *fakeUserStore) GetByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, userstore.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u models.User) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return models.User{}, userstore.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	f.users[u.ID.Hex()] = &u
	return u, nil
}

func newTestHandler(store UserStore) *Handler {
	return NewHandler(store, token.NewService("test-secret", time.Hour), nil, nil, zap.NewNop())
}

func postJSON(target, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeLogin(t *testing.T, rec *httptest.ResponseRecorder) loginResponse {
	t.Helper()
	var resp loginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp
}

func TestHandleLogin(t *testing.T) {
	user := testutil.PasswordUserFixture("Jane Smith", "jane@example.com", models.RoleAdmin, "hunter22")
	h := newTestHandler(newFakeUserStore(user))

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, postJSON("/api/auth/login", `{"email":"Jane@Example.com","pwd":"hunter22"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	resp := decodeLogin(t, rec)
	if resp.Token == "" {
		t.Error("response missing token")
	}
	if resp.User.ID != user.ID.Hex() || resp.User.Email != "jane@example.com" || resp.User.Role != models.RoleAdmin {
		t.Errorf("user = %+v", resp.User)
	}

	claims, err := h.Tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID() != user.ID.Hex() {
		t.Errorf("token subject = %q, want user id", claims.UserID())
	}
}

func TestHandleLoginRejections(t *testing.T) {
	user := testutil.PasswordUserFixture("Jane", "jane@example.com", models.RoleUser, "hunter22")
	sso := testutil.GoogleUserFixture("Bob SSO", "bob@example.com", "google-sub-1")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"jane@example.com","pwd":"wrong"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"nobody@example.com","pwd":"hunter22"}`, http.StatusUnauthorized},
		{"sso-only account", `{"email":"bob@example.com","pwd":"anything"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":"","pwd":""}`, http.StatusBadRequest},
		{"unknown field", `{"email":"jane@example.com","pwd":"x","extra":true}`, http.StatusBadRequest},
		{"not json", `login please`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(newFakeUserStore(user, sso))
			rec := httptest.NewRecorder()
			h.HandleLogin(rec, postJSON("/api/auth/login", tt.body))

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), "Invalid credentials") {
				t.Errorf("body = %s, want Invalid credentials", rec.Body.String())
			}
		})
	}
}

func TestHandleLoginRateLimited(t *testing.T) {
	user := testutil.PasswordUserFixture("Jane", "jane@example.com", models.RoleUser, "hunter22")
	h := newTestHandler(newFakeUserStore(user))
	h.Limiter = ratelimit.NewLoginLimiter(2, time.Minute)

	body := `{"email":"jane@example.com","pwd":"wrong"}`
	var last int
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, postJSON("/api/auth/login", body))
		last = rec.Code
		if last == http.StatusTooManyRequests {
			break
		}
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("final status = %d, want 429", last)
	}
}

func TestHandleGoogleLoginProvisions(t *testing.T) {
	store := newFakeUserStore()
	h := newTestHandler(store)
	h.AdminEmails = []string{"Boss@Example.com"}

	rec := httptest.NewRecorder()
	h.HandleGoogleLogin(rec, postJSON("/api/auth/google-login",
		`{"googleId":"sub-1","email":"boss@example.com","name":"The Boss","profilePicture":"https://p.example/x.jpg"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeLogin(t, rec)
	// Allow-list matching is case-insensitive.
	if resp.User.Role != models.RoleAdmin {
		t.Errorf("role = %q, want Admin via allow-list", resp.User.Role)
	}
	if resp.User.Status != models.StatusActive {
		t.Errorf("status = %q, want Active", resp.User.Status)
	}
	if resp.User.Pic != "https://p.example/x.jpg" {
		t.Errorf("pic = %q", resp.User.Pic)
	}
}

func TestHandleGoogleLoginIdempotent(t *testing.T) {
	store := newFakeUserStore()
	h := newTestHandler(store)

	body := `{"googleId":"sub-2","email":"user@example.com","name":"A User","profilePicture":""}`

	rec1 := httptest.NewRecorder()
	h.HandleGoogleLogin(rec1, postJSON("/api/auth/google-login", body))
	rec2 := httptest.NewRecorder()
	h.HandleGoogleLogin(rec2, postJSON("/api/auth/google-login", body))

	if rec1.Code != http.StatusOK || rec2.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d", rec1.Code, rec2.Code)
	}
	first, second := decodeLogin(t, rec1), decodeLogin(t, rec2)
	if first.User.ID != second.User.ID {
		t.Error("second sign-in created a new account")
	}
	if len(store.users) != 1 {
		t.Errorf("store holds %d users, want 1", len(store.users))
	}
	if second.User.Role != models.RoleUser {
		t.Errorf("role = %q, want User without allow-list", second.User.Role)
	}
}

// racingUserStore loses the provisioning insert race: the first Create
// commits a concurrent winner and fails with the duplicate sentinel, the
// way a unique-index collision surfaces from the real store.
type racingUserStore struct {
	*fakeUserStore
	winner models.User
	raced  bool
}

func (s *racingUserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	if !s.raced {
		s.raced = true
		w := s.winner
		s.users[w.ID.Hex()] = &w
		return models.User{}, userstore.ErrDuplicateEmail
	}
	return s.fakeUserStore.Create(ctx, u)
}

func TestHandleGoogleLoginInsertRace(t *testing.T) {
	winner := testutil.GoogleUserFixture("The Winner", "racer@example.com", "sub-race")
	store := &racingUserStore{fakeUserStore: newFakeUserStore(), winner: winner}
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.HandleGoogleLogin(rec, postJSON("/api/auth/google-login",
		`{"googleId":"sub-race","email":"racer@example.com","name":"The Winner","profilePicture":""}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeLogin(t, rec)
	if resp.User.ID != winner.ID.Hex() {
		t.Errorf("user id = %q, want the winner's %q", resp.User.ID, winner.ID.Hex())
	}
	if len(store.users) != 1 {
		t.Errorf("store holds %d users, want the single winner", len(store.users))
	}
}

func TestHandleGoogleLoginEmailCollision(t *testing.T) {
	// The address already belongs to a password account with no Google
	// subject, so the duplicate is on email and the fallback lookup by
	// email resolves it.
	existing := testutil.PasswordUserFixture("Jane", "jane@example.com", models.RoleUser, "hunter22")
	store := newFakeUserStore(existing)
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.HandleGoogleLogin(rec, postJSON("/api/auth/google-login",
		`{"googleId":"sub-collide","email":"jane@example.com","name":"Jane","profilePicture":""}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeLogin(t, rec)
	if resp.User.ID != existing.ID.Hex() {
		t.Errorf("user id = %q, want the existing account's %q", resp.User.ID, existing.ID.Hex())
	}
	if len(store.users) != 1 {
		t.Errorf("store holds %d users, want 1", len(store.users))
	}
}

func TestHandleGoogleLoginValidation(t *testing.T) {
	h := newTestHandler(newFakeUserStore())

	rec := httptest.NewRecorder()
	h.HandleGoogleLogin(rec, postJSON("/api/auth/google-login", `{"googleId":"","email":"","name":"X","profilePicture":""}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeMe(t *testing.T) {
	user := testutil.PasswordUserFixture("Jane", "jane@example.com", models.RoleUser, "hunter22")
	h := newTestHandler(newFakeUserStore(user))

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r = sysauth.WithTestClaims(r, testutil.Claims(user.ID.Hex(), user.Email, user.Role))
	rec := httptest.NewRecorder()
	h.ServeMe(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got models.User
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != user.ID || got.Email != "jane@example.com" {
		t.Errorf("user = %+v", got)
	}
	// The stored hash must never serialize, even on the full record.
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), *user.PasswordHash) {
		t.Errorf("response leaks password material: %s", rec.Body.String())
	}
}

func TestServeMeStaleSubject(t *testing.T) {
	h := newTestHandler(newFakeUserStore())

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r = sysauth.WithTestClaims(r, testutil.Claims(primitive.NewObjectID().Hex(), "gone@example.com", models.RoleUser))
	rec := httptest.NewRecorder()
	h.ServeMe(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestLoginResponseNeverLeaksSecrets(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	hashStr := string(hash)
	gid := "google-sub-9"
	user := testutil.UserFixture("Jane", "jane@example.com", models.RoleUser)
	user.PasswordHash = &hashStr
	user.GoogleID = &gid

	h := newTestHandler(newFakeUserStore(user))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, postJSON("/api/auth/login", `{"email":"jane@example.com","pwd":"hunter22"}`))

	body := rec.Body.String()
	if strings.Contains(body, hashStr) || strings.Contains(body, "googleId") || strings.Contains(body, gid) {
		t.Errorf("login response leaks stored secrets: %s", body)
	}
}
