package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minseo-dev/qr-orders/internal/analytics"
)

type fakeAnalyticsStore struct {
	filter  analytics.Filter
	limit   int
	summary analytics.Summary
	slots   []analytics.HourlySlot
	peaks   []analytics.PeakHour
	items   []analytics.TopItem
}

func (f *fakeAnalyticsStore) Summary(_ context.Context, fl analytics.Filter) (analytics.Summary, error) {
	f.filter = fl
	return f.summary, nil
}

func (f *fakeAnalyticsStore) HourlyBreakdown(_ context.Context, fl analytics.Filter) ([]analytics.HourlySlot, []analytics.PeakHour, error) {
	f.filter = fl
	return f.slots, f.peaks, nil
}

func (f *fakeAnalyticsStore) TopItems(_ context.Context, fl analytics.Filter, limit int) ([]analytics.TopItem, error) {
	f.filter = fl
	f.limit = limit
	return f.items, nil
}

func newAnalyticsServer(store *fakeAnalyticsStore, now time.Time) *httptest.Server {
	r := NewRouter()
	h := &AnalyticsHandler{Store: store, Now: func() time.Time { return now }}
	h.Register(r)
	return httptest.NewServer(r)
}

func TestAnalyticsSummary(t *testing.T) {
	avg := 12.5
	store := &fakeAnalyticsStore{summary: analytics.Summary{
		TotalRevenue:       10,
		TotalOrders:        1,
		AvgOrderValue:      10,
		AvgFulfillmentTime: &avg,
		CompletedOrders:    1,
		HourlyData:         []analytics.HourlyBucket{{Hour: "12:00", Orders: 1, Revenue: 10}},
	}}
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	srv := newAnalyticsServer(store, now)
	defer srv.Close()

	resp, got := do(t, http.MethodGet, srv.URL+"/analytics?storeSlug=dodam&compareWithPrevious=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got["totalRevenue"] != float64(10) || got["totalOrders"] != float64(1) {
		t.Errorf("body = %v", got)
	}
	if got["avgFulfillmentTime"] != float64(12.5) {
		t.Errorf("avgFulfillmentTime = %v", got["avgFulfillmentTime"])
	}

	f := store.filter
	if f.StoreSlug != "dodam" || !f.ComparePrevious {
		t.Errorf("filter = %+v", f)
	}
	wantStart := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if !f.Range.Start.Equal(wantStart) {
		t.Errorf("default range start = %v, want local midnight", f.Range.Start)
	}
	if !f.Range.End.After(f.Range.Start) {
		t.Error("default range must cover the day")
	}
}

func TestAnalyticsExplicitRange(t *testing.T) {
	store := &fakeAnalyticsStore{}
	srv := newAnalyticsServer(store, time.Now())
	defer srv.Close()

	resp, _ := do(t, http.MethodGet, srv.URL+"/analytics?startDate=2026-08-01&endDate=2026-08-07", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if store.filter.Range.Start.Day() != 1 || store.filter.Range.End.Day() != 7 {
		t.Errorf("range = %+v", store.filter.Range)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/analytics?startDate=nonsense", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyticsHourly(t *testing.T) {
	store := &fakeAnalyticsStore{
		slots: []analytics.HourlySlot{{Hour: 12, DayOfWeek: 5, OrderCount: 3, TotalRevenue: 42}},
		peaks: []analytics.PeakHour{{Hour: 12, OrderCount: 3, Revenue: 42}},
	}
	srv := newAnalyticsServer(store, time.Now())
	defer srv.Close()

	resp, got := do(t, http.MethodGet, srv.URL+"/analytics/hourly", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	raw, _ := json.Marshal(got["hourlyData"])
	var slots []analytics.HourlySlot
	if err := json.Unmarshal(raw, &slots); err != nil || len(slots) != 1 {
		t.Fatalf("hourlyData = %v", got["hourlyData"])
	}
	if slots[0].Hour != 12 || slots[0].OrderCount != 3 {
		t.Errorf("slot = %+v", slots[0])
	}
	if got["peakHours"] == nil {
		t.Error("peakHours missing")
	}
}

func TestTopItemsLimit(t *testing.T) {
	store := &fakeAnalyticsStore{items: []analytics.TopItem{}}
	srv := newAnalyticsServer(store, time.Now())
	defer srv.Close()

	resp, got := do(t, http.MethodGet, srv.URL+"/analytics/top-items", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if store.limit != 10 {
		t.Errorf("default limit = %d, want 10", store.limit)
	}
	if _, ok := got["topItems"]; !ok {
		t.Error("topItems missing")
	}

	_, _ = do(t, http.MethodGet, srv.URL+"/analytics/top-items?limit=3", "")
	if store.limit != 3 {
		t.Errorf("limit = %d, want 3", store.limit)
	}
}
