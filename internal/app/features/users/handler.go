// internal/app/features/users/handler.go

// Package users implements the user-directory endpoints the console's
// management screen drives: list, fetch, update, delete, and status
// changes.
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
	userstore "github.com/mvarner/pulseboard/internal/app/store/users"
	"github.com/mvarner/pulseboard/internal/domain/models"
)

// UserStore is the slice of the user store the directory endpoints need.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Replace(ctx context.Context, id primitive.ObjectID, upd userstore.Update) (*models.User, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	Users UserStore
	Log   *zap.Logger
}

func NewHandler(users UserStore, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type updateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// ServeList returns every user as directory entries, oldest first. The
// projection never includes the Google subject or the password hash.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Failed to fetch users", err)
		return
	}

	entries := make([]models.DirectoryEntry, len(users))
	for i, u := range users {
		entries[i] = u.Directory()
	}
	webjson.Write(w, http.StatusOK, entries)
}

// ServeGet returns one user as a directory entry.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
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
	webjson.Write(w, http.StatusOK, user.Directory())
}

// HandleUpdate replaces the editable fields of a user and returns the
// updated record under the {msg, usr} envelope the console expects.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.Email == "" {
		webjson.Error(w, http.StatusBadRequest, "Name and email are required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Replace(ctx, id, userstore.Update{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			webjson.Error(w, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, userstore.ErrDuplicateEmail):
			webjson.Error(w, http.StatusConflict, "Email already in use", nil)
		case errors.Is(err, userstore.ErrInvalidRole), errors.Is(err, userstore.ErrInvalidStatus):
			webjson.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			webjson.Error(w, http.StatusInternalServerError, "Failed to update user", err)
		}
		return
	}

	webjson.Write(w, http.StatusOK, map[string]any{
		"msg": "Updated",
		"usr": user.Directory(),
	})
}

// HandleDelete removes a user.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			webjson.Error(w, http.StatusNotFound, "User not found", nil)
			return
		}
		webjson.Error(w, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}

	h.Log.Info("user deleted", zap.String("user_id", id.Hex()))
	webjson.Write(w, http.StatusOK, map[string]string{"msg": "User deleted"})
}

// HandleStatus sets a user's status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.SetStatus(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			webjson.Error(w, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, userstore.ErrInvalidStatus):
			webjson.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			webjson.Error(w, http.StatusInternalServerError, "Failed to update status", err)
		}
		return
	}

	webjson.Write(w, http.StatusOK, map[string]any{
		"msg": "Status updated",
		"usr": user.Directory(),
	})
}

// pathID parses the {id} path segment. A malformed id is reported as 404
// so probing with junk ids looks identical to probing with unknown ones.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		webjson.Error(w, http.StatusNotFound, "User not found", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}
