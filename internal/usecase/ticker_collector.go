package usecase

import (
	"context"
	"strings"

	"KeepItBased/internal/domain/models"
	"KeepItBased/internal/domain/repository"
	"KeepItBased/pkg/cache"
	"KeepItBased/pkg/logger"
)

// TickerCollector consumes a live ticker stream and keeps the ticker cache
// warm, so REST reads hit fresh entries instead of the provider. It is
// optional; without it every ticker read falls back to the REST fetch.
type TickerCollector struct {
	stream  repository.TickerStream
	cache   cache.Service
	metrics repository.Metrics
	log     *logger.Logger
}

// NewTickerCollector creates a collector. cache may be nil, in which case
// snapshots are consumed for metrics only.
func NewTickerCollector(stream repository.TickerStream, c cache.Service, m repository.Metrics, log *logger.Logger) *TickerCollector {
	return &TickerCollector{stream: stream, cache: c, metrics: m, log: log}
}

// IsConnected reports stream connectivity.
func (c *TickerCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start connects, subscribes and launches the consume loop.
func (c *TickerCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	snapCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, snapCh, errCh)
	return nil
}

// consume drains the stream channels until ctx ends. The stream closes both
// channels when its read loop dies, so a closed snapshot channel triggers a
// reconnect and a fresh Read; a closed error channel is parked on nil to keep
// the select blocking.
func (c *TickerCollector) consume(ctx context.Context, snapCh <-chan *models.TickerSnapshot, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			c.metrics.RecordError("stream")
			c.log.Warn("ticker stream error", logger.Error(err))
		case snap, ok := <-snapCh:
			if !ok {
				if errCh != nil {
					for err := range errCh {
						c.metrics.RecordError("stream")
						c.log.Warn("ticker stream error", logger.Error(err))
					}
				}
				snapCh, errCh = c.resubscribe(ctx)
				if snapCh == nil {
					return
				}
				continue
			}
			if snap == nil {
				continue
			}
			c.store(ctx, snap)
		}
	}
}

// resubscribe reconnects the stream and hands back fresh read channels.
// Retries until a reconnect succeeds; the stream's own reconnect delay paces
// the attempts. Returns nils once ctx ends.
func (c *TickerCollector) resubscribe(ctx context.Context) (<-chan *models.TickerSnapshot, <-chan error) {
	for {
		if ctx.Err() != nil {
			return nil, nil
		}
		if err := c.stream.Reconnect(ctx); err != nil {
			c.metrics.RecordError("stream")
			c.log.Error("ticker stream reconnect failed", logger.Error(err))
			continue
		}
		c.log.Info("ticker stream reconnected")
		return c.stream.Read(ctx)
	}
}

// store caches the snapshot under the REST pair spelling ("XBT/USD" arrives
// from the stream, "XBTUSD" is what clients ask for).
func (c *TickerCollector) store(ctx context.Context, snap *models.TickerSnapshot) {
	symbol := strings.ReplaceAll(snap.Symbol, "/", "")
	snap.Symbol = symbol
	c.metrics.RecordLastPrice(symbol, snap.Price)

	if c.cache == nil {
		return
	}
	key := CacheKey(KindTicker, symbol)
	if err := c.cache.Set(ctx, key, snap, TTLFor(KindTicker, 0)); err != nil {
		c.log.Warn("ticker cache warm failed", logger.String("key", key), logger.Error(err))
	}
}

// Stop closes the stream.
func (c *TickerCollector) Stop() error { return c.stream.Close() }
