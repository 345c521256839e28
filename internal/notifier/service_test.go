package notifier

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/minseo-dev/qr-orders/internal/orders"
)

func envelope(t *testing.T, eventType string, payload any) orders.Envelope {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return orders.Envelope{
		EventID:      "ev-1",
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		Producer:     "order-api",
		Payload:      b,
	}
}

func TestStreamEventFromCreated(t *testing.T) {
	env := envelope(t, orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID:     "ord-1",
		StoreSlug:   "dodam",
		OrderNumber: "DO-004",
		TotalCents:  3700,
		Status:      orders.StatusPending,
	})

	ev, ok, err := streamEventFrom(env)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if ev.Type != "created" || ev.OrderID != "ord-1" || ev.StoreSlug != "dodam" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Status != "pending" || ev.OrderNumber != "DO-004" {
		t.Errorf("event = %+v", ev)
	}
	if !ev.OccurredAt.Equal(env.OccurredAt) {
		t.Errorf("occurred_at = %v", ev.OccurredAt)
	}
}

func TestStreamEventFromStatusChanged(t *testing.T) {
	done := time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
	env := envelope(t, orders.EventOrderStatusChanged, orders.OrderStatusChangedPayload{
		OrderID:     "ord-1",
		StoreSlug:   "dodam",
		OrderNumber: "DO-004",
		Status:      orders.StatusCompleted,
		CompletedAt: &done,
	})

	ev, ok, err := streamEventFrom(env)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if ev.Type != "status_changed" || ev.Status != "completed" {
		t.Errorf("event = %+v", ev)
	}
	if ev.CompletedAt == nil || !ev.CompletedAt.Equal(done) {
		t.Errorf("completed_at = %v", ev.CompletedAt)
	}
}

func TestStreamEventFromUnknownType(t *testing.T) {
	env := envelope(t, "SomethingElse", map[string]string{"x": "y"})
	_, ok, err := streamEventFrom(env)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unknown event types must be skipped, not forwarded")
	}
}

func TestStreamEventFromBadPayload(t *testing.T) {
	env := orders.Envelope{EventType: orders.EventOrderCreated, Payload: []byte(`{`)}
	if _, _, err := streamEventFrom(env); err == nil {
		t.Error("corrupt payload must surface an error")
	}
}
