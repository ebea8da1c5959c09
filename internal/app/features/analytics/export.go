// internal/app/features/analytics/export.go
package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
)

// ServeExportCSV streams the requested range as a CSV download.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "Dates must be YYYY-MM-DD", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	records, err := h.Records.ListRange(ctx, start, end)
	if err != nil {
		webjson.Error(w, http.StatusInternalServerError, "Failed to fetch analytics", err)
		return
	}

	filename := fmt.Sprintf("analytics_%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	// UTF-8 BOM for Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.Log.Error("CSV write failed (BOM)", zap.Error(err))
		return
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	if err := cw.Write([]string{"date", "active_users", "new_signups", "revenue", "conversion_rate", "user_engagement"}); err != nil {
		h.Log.Error("CSV write failed (header)", zap.Error(err))
		return
	}

	for _, rec := range records {
		if err := cw.Write([]string{
			rec.Date.Format(dateLayout),
			strconv.FormatInt(rec.ActiveUsers, 10),
			strconv.FormatInt(rec.NewSignups, 10),
			strconv.FormatInt(rec.Revenue, 10),
			strconv.FormatFloat(rec.ConversionRate, 'f', 2, 64),
			strconv.FormatFloat(rec.UserEngagement, 'f', 2, 64),
		}); err != nil {
			h.Log.Error("CSV write failed (row)", zap.Error(err))
			return
		}
	}

	h.Log.Info("analytics CSV exported", zap.Int("rows", len(records)))
}
