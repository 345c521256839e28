// Package notifier bridges order lifecycle events from Kafka onto the
// per-store redis pub/sub channels that feed the SSE order stream.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/minseo-dev/qr-orders/internal/kafka"
	"github.com/minseo-dev/qr-orders/internal/orders"
	"github.com/minseo-dev/qr-orders/internal/redisx"
)

// StreamEvent is the compact shape pushed to board clients.
type StreamEvent struct {
	Type        string     `json:"type"` // "created" | "status_changed"
	OrderID     string     `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	StoreSlug   string     `json:"store_slug"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

type Service struct {
	Redis *redis.Client
	Name  string // dedup namespace
}

// HandleOrderEvent is the consumer handler for both order topics.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}

	ev, ok, err := streamEventFrom(env)
	if err != nil {
		return err
	}
	if !ok {
		return nil // unknown event type, skip and commit
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.Name, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	channel := fmt.Sprintf(redisx.ChannelOrderStream, ev.StoreSlug)
	return s.Redis.Publish(ctx, channel, kafkax.MustMarshal(ev)).Err()
}

// streamEventFrom maps an envelope to its board event. The second return is
// false for event types the notifier does not forward.
func streamEventFrom(env orders.Envelope) (StreamEvent, bool, error) {
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return StreamEvent{}, false, err
		}
		return StreamEvent{
			Type:        "created",
			OrderID:     p.OrderID,
			OrderNumber: p.OrderNumber,
			StoreSlug:   p.StoreSlug,
			Status:      string(p.Status),
			OccurredAt:  env.OccurredAt,
		}, true, nil
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return StreamEvent{}, false, err
		}
		return StreamEvent{
			Type:        "status_changed",
			OrderID:     p.OrderID,
			OrderNumber: p.OrderNumber,
			StoreSlug:   p.StoreSlug,
			Status:      string(p.Status),
			CompletedAt: p.CompletedAt,
			OccurredAt:  env.OccurredAt,
		}, true, nil
	default:
		return StreamEvent{}, false, nil
	}
}
