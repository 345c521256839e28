package redisx

import "time"

const (
	// Cached order row: order:cache:{order_id} -> serialized order JSON.
	// Refreshed on create and on every status write; DB stays the source
	// of truth.
	KeyOrderCache = "order:cache:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Pub/sub channel feeding the per-store SSE stream:
	// orders:stream:{store_slug}
	ChannelOrderStream = "orders:stream:%s"
)

var (
	TTLOrderCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)
