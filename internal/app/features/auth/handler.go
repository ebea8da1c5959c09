// internal/app/features/auth/handler.go

// Package auth implements the authentication endpoints: email/password
// login, Google sign-in (both the token POST used by the SPA and the full
// redirect flow), and the current-user lookup.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	sysauth "github.com/mvarner/pulseboard/internal/app/system/auth"
	"github.com/mvarner/pulseboard/internal/app/system/metrics"
	"github.com/mvarner/pulseboard/internal/app/system/normalize"
	"github.com/mvarner/pulseboard/internal/app/system/ratelimit"
	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
	"github.com/mvarner/pulseboard/internal/app/system/token"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
	userstore "github.com/mvarner/pulseboard/internal/app/store/users"
	"github.com/mvarner/pulseboard/internal/domain/models"
)

// UserStore is the slice of the user store the auth endpoints need.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
}

type Handler struct {
	Users   UserStore
	Tokens  *token.Service
	Limiter *ratelimit.LoginLimiter
	Metrics *metrics.Collector
	Log     *zap.Logger

	// AdminEmails lists the addresses that are provisioned as admins on
	// first Google sign-in. Matching is case-insensitive.
	AdminEmails []string

	// Redirect-flow configuration; nil OAuth disables /google and
	// /google/callback.
	OAuth   *oauth2.Config
	States  OAuthStates
	BaseURL string
}

func NewHandler(users UserStore, tokens *token.Service, limiter *ratelimit.LoginLimiter, collector *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   users,
		Tokens:  tokens,
		Limiter: limiter,
		Metrics: collector,
		Log:     logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"pwd"`
}

type googleLoginRequest struct {
	GoogleID       string `json:"googleId"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
}

type loginResponse struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

// HandleLogin authenticates an email/password account and issues a bearer
// token. Unknown emails, SSO-only accounts, and wrong passwords all come
// back as the same 401 so the response does not confirm which emails exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		webjson.Error(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			webjson.Error(w, http.StatusTooManyRequests, reason, nil)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.loginFailed(w, email, "unknown email")
			return
		}
		webjson.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	if user.PasswordHash == nil {
		h.loginFailed(w, email, "no password on account")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		h.loginFailed(w, email, "wrong password")
		return
	}

	h.issueAndRespond(w, user)
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
}

// HandleGoogleLogin provisions or looks up a Google SSO account from the
// profile the SPA obtained client-side, then issues a bearer token. The
// operation is idempotent per Google subject.
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.GoogleID) == "" || normalize.Email(req.Email) == "" {
		webjson.Error(w, http.StatusBadRequest, "googleId and email are required", nil)
		return
	}

	// IP-only window here; the email window is for password guessing.
	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, ""); !ok {
			webjson.Error(w, http.StatusTooManyRequests, reason, nil)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.lookupOrProvisionGoogle(ctx, req.GoogleID, req.Email, req.Name, req.ProfilePicture)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.RecordLoginFailure()
		}
		webjson.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	h.issueAndRespond(w, user)
}

// ServeMe returns the full stored record of the authenticated user (the
// password hash never serializes). A token whose subject no longer resolves
// (the account was deleted after issue) yields 404, distinct from the 403 a
// bad token gets.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := sysauth.CurrentClaims(r)
	if !ok {
		webjson.Error(w, http.StatusUnauthorized, "Token required", nil)
		return
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID())
	if err != nil {
		webjson.Error(w, http.StatusNotFound, "User not found", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			webjson.Error(w, http.StatusNotFound, "User not found", nil)
			return
		}
		webjson.Error(w, http.StatusInternalServerError, "Failed to fetch user", err)
		return
	}

	webjson.Write(w, http.StatusOK, user)
}

// lookupOrProvisionGoogle finds the account for a Google subject, creating
// it on first sign-in. The admin allow-list decides the initial role. A
// concurrent first sign-in can lose the insert race on the unique google_id
// index; the loser re-reads the winner's record.
func (h *Handler) lookupOrProvisionGoogle(ctx context.Context, googleID, email, name, pic string) (*models.User, error) {
	user, err := h.Users.GetByGoogleID(ctx, googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return nil, err
	}

	role := models.RoleUser
	if h.isAdminEmail(email) {
		role = models.RoleAdmin
	}

	created, err := h.Users.Create(ctx, models.User{
		GoogleID:       &googleID,
		Name:           name,
		Email:          email,
		Role:           role,
		Status:         models.StatusActive,
		ProfilePicture: pic,
	})
	if err == nil {
		h.Log.Info("provisioned google account",
			zap.String("email", created.Email),
			zap.String("role", created.Role))
		return &created, nil
	}
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		return nil, err
	}

	if user, lookupErr := h.Users.GetByGoogleID(ctx, googleID); lookupErr == nil {
		return user, nil
	}
	// The collision was on email, not google_id: the address already has a
	// password account.
	return h.Users.GetByEmail(ctx, email)
}

func (h *Handler) isAdminEmail(email string) bool {
	for _, a := range h.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

func (h *Handler) issueAndRespond(w http.ResponseWriter, user *models.User) {
	tok, err := h.Tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordLoginSuccess()
	}
	webjson.Write(w, http.StatusOK, loginResponse{Token: tok, User: user.Public()})
}

func (h *Handler) loginFailed(w http.ResponseWriter, email, reason string) {
	if h.Metrics != nil {
		h.Metrics.RecordLoginFailure()
	}
	h.Log.Info("login rejected", zap.String("email", email), zap.String("reason", reason))
	webjson.Error(w, http.StatusUnauthorized, "Invalid credentials", nil)
}
