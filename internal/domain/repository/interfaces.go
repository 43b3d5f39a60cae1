package repository

import (
	"context"

	"KeepItBased/internal/domain/models"
)

// Metrics records operational counters for the market data engine.
type Metrics interface {
	RecordFetch(provider, kind string)
	RecordCacheHit(kind string)
	RecordCacheMiss(kind string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordFetchLatency(provider, kind string, seconds float64)
}

// TickerStream is a live quote intake. Implementations push normalized
// snapshots; consumers decide where they land (typically the ticker cache).
// When the underlying read loop dies, Read's channels are closed (errors
// first) and the consumer is expected to Reconnect and call Read again.
type TickerStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.TickerSnapshot, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}
