package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/minseo-dev/qr-orders/internal/kafka"
	"github.com/minseo-dev/qr-orders/internal/orders"
	"github.com/minseo-dev/qr-orders/internal/redisx"
)

type OrderStore interface {
	Create(ctx context.Context, p orders.CreateParams) (orders.Order, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	List(ctx context.Context, f orders.ListFilter) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, status orders.Status) (orders.Order, error)
	History(ctx context.Context, f orders.HistoryFilter) (orders.HistoryPage, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Store         OrderStore
	Created       Publisher
	StatusChanged Publisher
	Redis         *redis.Client
	Service       string
	Currency      string // store-level default currency
}

type createOrderReq struct {
	StoreSlug     string             `json:"store_slug"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerEmail string             `json:"customer_email"`
	Items         []orders.OrderItem `json:"items"`
	TotalCents    int64              `json:"total_cents"`
	Currency      string             `json:"currency"`
	Notes         string             `json:"notes"`
}

type createOrderResp struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	timed := r.With(middleware.Timeout(requestTimeout))
	timed.Post("/orders", h.create)
	timed.Get("/orders", h.list)
	timed.Get("/orders/history", h.history)
	timed.Get("/orders/{id}", h.get)
	timed.Patch("/orders/{id}", h.updateStatus)
	// long-lived; must not run under the request timeout
	r.Get("/orders/stream", h.stream)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.StoreSlug == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}
	// A zero total is rejected along with negatives; there is no such thing
	// as a free order.
	if req.TotalCents <= 0 {
		writeError(w, http.StatusBadRequest, "total_cents must be positive")
		return
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid quantity for item %s", it.ID))
			return
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = h.Currency
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.Create(ctx, orders.CreateParams{
		StoreSlug:     req.StoreSlug,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Items:         req.Items,
		TotalCents:    req.TotalCents,
		Currency:      currency,
		Notes:         req.Notes,
	})
	if err != nil {
		slog.Error("create order failed", "store", req.StoreSlug, "error", err)
		writeError(w, http.StatusInternalServerError, "unable to create order")
		return
	}

	h.cacheOrder(ctx, o)
	h.publish(h.Created, r, orders.EventOrderCreated, o.ID, orders.OrderCreatedPayload{
		OrderID:     o.ID,
		StoreSlug:   o.StoreSlug,
		OrderNumber: o.OrderNumber,
		TotalCents:  o.TotalCents,
		Status:      o.Status,
	})

	writeJSON(w, http.StatusCreated, createOrderResp{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      "ok",
		ReceivedAt:  o.CreatedAt,
	})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := orders.ListFilter{StoreSlug: q.Get("storeSlug")}
	if s := q.Get("status"); s != "" {
		f.Statuses = splitCSV(s)
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Store.List(ctx, f)
	if err != nil {
		slog.Error("list orders failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out, "count": len(out)})
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderCache, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	o, err := h.Store.Get(ctx, id)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		slog.Error("get order failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch order")
		return
	}
	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "Missing status field")
		return
	}
	status, ok := orders.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest,
			"Invalid status. Must be one of: pending, preparing, ready, completed, cancelled")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.UpdateStatus(ctx, id, status)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		slog.Error("update order status failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to update order")
		return
	}

	h.cacheOrder(ctx, o)
	h.publish(h.StatusChanged, r, orders.EventOrderStatusChanged, o.ID, orders.OrderStatusChangedPayload{
		OrderID:     o.ID,
		StoreSlug:   o.StoreSlug,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		CompletedAt: o.CompletedAt,
	})

	writeJSON(w, http.StatusOK, map[string]any{"order": o, "status": "ok"})
}

func (h *OrdersHandler) history(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := orders.HistoryFilter{
		StoreSlug:   q.Get("storeSlug"),
		OrderNumber: q.Get("orderNumber"),
		Limit:       50,
		Offset:      0,
	}
	if s := q.Get("startDate"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		f.Start = &t
	}
	if s := q.Get("endDate"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		f.End = &t
	}
	if s := q.Get("status"); s != "" {
		f.Statuses = splitCSV(s)
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = clamp(n, 1, 100)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		f.Offset = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, err := h.Store.History(ctx, f)
	if err != nil {
		slog.Error("order history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch order history")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// streamHeartbeat keeps idle SSE connections from being dropped by proxies.
var streamHeartbeat = 15 * time.Second

// stream is the push channel behind the staff board: a long-lived SSE
// response fed by the per-store redis pub/sub channel. Polling GET /orders
// stays available as the fallback contract.
func (h *OrdersHandler) stream(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("storeSlug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing storeSlug")
		return
	}
	if h.Redis == nil {
		writeError(w, http.StatusServiceUnavailable, "stream unavailable")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub := h.Redis.Subscribe(r.Context(), fmt.Sprintf(redisx.ChannelOrderStream, slug))
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ch := sub.Channel()
	for {
		select {
		case <-r.Context().Done():
			return
		case m, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", m.Payload)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func (h *OrdersHandler) cacheOrder(ctx context.Context, o orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderCache, o.ID)
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderCache).Err()
}

func (h *OrdersHandler) publish(p Publisher, r *http.Request, eventType, orderID string, payload any) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
