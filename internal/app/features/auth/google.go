// internal/app/features/auth/google.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
)

// OAuthStates persists one-time state tokens for the redirect flow.
type OAuthStates interface {
	Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error
	Validate(ctx context.Context, state string) (returnURL string, valid bool, err error)
}

// stateTTL bounds how long a login redirect may sit before the callback.
const stateTTL = 10 * time.Minute

// googleUserInfo is the subset of the Google userinfo response we consume.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleEnabled reports whether the redirect flow is configured.
func (h *Handler) GoogleEnabled() bool {
	return h.OAuth != nil && h.OAuth.ClientID != ""
}

// ServeGoogleRedirect starts the server-side Google sign-in flow: it saves
// a one-time state token and bounces the browser to Google's consent page.
func (h *Handler) ServeGoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if !h.GoogleEnabled() {
		webjson.Error(w, http.StatusNotFound, "Google sign-in is not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	state := uuid.NewString()
	returnURL := r.URL.Query().Get("return")
	if err := h.States.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeGoogleCallback completes the redirect flow: it consumes the state
// token, exchanges the code, fetches the Google profile, provisions or
// looks up the account, and hands the bearer token back to the SPA in the
// URL fragment (fragments never reach server logs).
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.GoogleEnabled() {
		webjson.Error(w, http.StatusNotFound, "Google sign-in is not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := r.URL.Query().Get("state")
	returnURL, valid, err := h.States.Validate(ctx, state)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}
	if !valid {
		webjson.Error(w, http.StatusBadRequest, "Invalid or expired state", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		webjson.Error(w, http.StatusBadRequest, "Missing authorization code", nil)
		return
	}

	exchanged, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		h.Log.Warn("google code exchange failed", zap.Error(err))
		webjson.Error(w, http.StatusBadGateway, "Login failed", err)
		return
	}

	info, err := fetchGoogleUserInfo(ctx, h.OAuth, exchanged)
	if err != nil {
		h.Log.Warn("google userinfo fetch failed", zap.Error(err))
		webjson.Error(w, http.StatusBadGateway, "Login failed", err)
		return
	}

	user, err := h.lookupOrProvisionGoogle(ctx, info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	tok, err := h.Tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordLoginSuccess()
	}

	dest := fmt.Sprintf("%s/login#token=%s", h.BaseURL, tok)
	if target := h.safeReturnURL(returnURL); target != "" {
		dest = fmt.Sprintf("%s#token=%s", target, tok)
	}
	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

// safeReturnURL accepts a stored return target only when it stays on this
// deployment: a same-origin path, or an absolute URL under BaseURL. Anything
// else falls back to the default login redirect.
func (h *Handler) safeReturnURL(raw string) string {
	if raw == "" || h.BaseURL == "" {
		return ""
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return h.BaseURL + raw
	}
	if raw == h.BaseURL || strings.HasPrefix(raw, h.BaseURL+"/") {
		return raw
	}
	return ""
}

func fetchGoogleUserInfo(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (*googleUserInfo, error) {
	resp, err := cfg.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing id or email")
	}
	return &info, nil
}
