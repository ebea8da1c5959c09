// internal/app/features/seed/handler.go

// Package seed exposes the admin-only endpoint that wipes and reseeds the
// development database.
package seed

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
	seedstore "github.com/mvarner/pulseboard/internal/app/store/seed"
)

// Reseeder wipes and repopulates the sample data.
type Reseeder interface {
	Reset(ctx context.Context) (seedstore.Result, error)
}

type Handler struct {
	Seeder Reseeder
	Log    *zap.Logger
}

func NewHandler(seeder Reseeder, logger *zap.Logger) *Handler {
	return &Handler{Seeder: seeder, Log: logger}
}

type response struct {
	Message   string `json:"message"`
	Users     int    `json:"users"`
	Analytics int    `json:"analytics"`
}

// HandleReseed drops the sample collections and reseeds them. Destructive;
// the route is admin-gated.
func (h *Handler) HandleReseed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Seeder.Reset(ctx)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Seeding failed", err)
		return
	}

	h.Log.Info("database reseeded",
		zap.Int("users", res.Users),
		zap.Int("analytics", res.Analytics))
	webjson.Write(w, http.StatusOK, response{
		Message:   "Database seeded",
		Users:     res.Users,
		Analytics: res.Analytics,
	})
}
