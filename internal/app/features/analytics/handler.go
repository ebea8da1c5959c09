// internal/app/features/analytics/handler.go

// Package analytics implements the dashboard's time-series endpoints: the
// raw daily records, the aggregated summary, and a CSV export.
package analytics

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mvarner/pulseboard/internal/app/system/normalize"
	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
	analyticsstore "github.com/mvarner/pulseboard/internal/app/store/analytics"
	"github.com/mvarner/pulseboard/internal/domain/models"
)

// RecordStore is the slice of the analytics store these endpoints need.
type RecordStore interface {
	ListRange(ctx context.Context, start, end *time.Time) ([]models.AnalyticsRecord, error)
}

type Handler struct {
	Records RecordStore
	Log     *zap.Logger
}

func NewHandler(records RecordStore, logger *zap.Logger) *Handler {
	return &Handler{Records: records, Log: logger}
}

// dateLayout is the wire format for range bounds.
const dateLayout = "2006-01-02"

// parseRange reads optional startDate and endDate query params. Either
// bound may stand alone; the missing side is open-ended. The end bound is
// pushed to the last instant of its day so a single-day range of
// startDate == endDate still matches that day's record.
func parseRange(r *http.Request) (start, end *time.Time, err error) {
	if s := normalize.QueryParam(r.URL.Query().Get("startDate")); s != "" {
		t, perr := time.Parse(dateLayout, s)
		if perr != nil {
			return nil, nil, perr
		}
		t = t.UTC()
		start = &t
	}
	if s := normalize.QueryParam(r.URL.Query().Get("endDate")); s != "" {
		t, perr := time.Parse(dateLayout, s)
		if perr != nil {
			return nil, nil, perr
		}
		t = t.UTC().Add(24*time.Hour - time.Second)
		end = &t
	}
	return start, end, nil
}

// ServeList returns the daily records in the requested range, ascending by
// date.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "Dates must be YYYY-MM-DD", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	records, err := h.Records.ListRange(ctx, start, end)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Failed to fetch analytics", err)
		return
	}
	webjson.Write(w, http.StatusOK, records)
}

// ServeSummary returns the aggregate statistics for the requested range.
// An empty range yields the zero summary.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "Dates must be YYYY-MM-DD", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	records, err := h.Records.ListRange(ctx, start, end)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Failed to fetch summary", err)
		return
	}
	webjson.Write(w, http.StatusOK, analyticsstore.Summarize(records))
}
