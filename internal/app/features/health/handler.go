// internal/app/features/health/handler.go

// Package health exposes the liveness endpoint load balancers and uptime
// checks poll.
package health

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
)

type Handler struct {
	Ping func(ctx context.Context) error
	Log  *zap.Logger
}

// NewHandler wires the health endpoint to a connectivity probe.
func NewHandler(ping func(ctx context.Context) error, logger *zap.Logger) *Handler {
	return &Handler{Ping: ping, Log: logger}
}

type response struct {
	Message  string `json:"message"`
	Database string `json:"database"`
}

// ServeHealth reports server and database status. A failed ping is 503 so
// orchestrators pull the instance out of rotation.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Ping(ctx); err != nil {
		h.Log.Warn("health ping failed", zap.Error(err))
		webjson.Write(w, http.StatusServiceUnavailable, response{
			Message:  "Server is running",
			Database: "disconnected",
		})
		return
	}

	webjson.Write(w, http.StatusOK, response{
		Message:  "Server is running",
		Database: "connected",
	})
}
