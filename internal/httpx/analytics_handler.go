package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/minseo-dev/qr-orders/internal/analytics"
)

type AnalyticsStore interface {
	Summary(ctx context.Context, f analytics.Filter) (analytics.Summary, error)
	HourlyBreakdown(ctx context.Context, f analytics.Filter) ([]analytics.HourlySlot, []analytics.PeakHour, error)
	TopItems(ctx context.Context, f analytics.Filter, limit int) ([]analytics.TopItem, error)
}

type AnalyticsHandler struct {
	Store AnalyticsStore
	Now   func() time.Time // nil means time.Now
}

func (h *AnalyticsHandler) Register(r *chi.Mux) {
	timed := r.With(middleware.Timeout(requestTimeout))
	timed.Get("/analytics", h.summary)
	timed.Get("/analytics/hourly", h.hourly)
	timed.Get("/analytics/top-items", h.topItems)
}

func (h *AnalyticsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// filterFromQuery defaults each missing bound to today's local
// midnight/end-of-day independently.
func (h *AnalyticsHandler) filterFromQuery(r *http.Request) (analytics.Filter, bool) {
	q := r.URL.Query()
	f := analytics.Filter{
		StoreSlug:       q.Get("storeSlug"),
		Range:           analytics.DayOf(h.now()),
		ComparePrevious: q.Get("compareWithPrevious") == "true",
	}
	if s := q.Get("startDate"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return f, false
		}
		f.Range.Start = t
	}
	if s := q.Get("endDate"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return f, false
		}
		f.Range.End = t
	}
	return f, true
}

func (h *AnalyticsHandler) summary(w http.ResponseWriter, r *http.Request) {
	f, ok := h.filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s, err := h.Store.Summary(ctx, f)
	if err != nil {
		slog.Error("analytics summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch analytics")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AnalyticsHandler) hourly(w http.ResponseWriter, r *http.Request) {
	f, ok := h.filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	slots, peaks, err := h.Store.HourlyBreakdown(ctx, f)
	if err != nil {
		slog.Error("hourly analytics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch hourly analytics")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hourlyData": slots, "peakHours": peaks})
}

func (h *AnalyticsHandler) topItems(w http.ResponseWriter, r *http.Request) {
	f, ok := h.filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}
	limit := 10
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := h.Store.TopItems(ctx, f, limit)
	if err != nil {
		slog.Error("top items failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch top items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topItems": items})
}
