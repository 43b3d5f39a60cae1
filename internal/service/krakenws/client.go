package krakenws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"KeepItBased/internal/domain/models"
	drepo "KeepItBased/internal/domain/repository"
	"KeepItBased/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a TickerStream backed by the Kraken public WebSocket.
// Ticker events arrive as positional arrays
// [channelID, payload, "ticker", "XBT/USD"]; everything else on the socket
// (heartbeats, subscription acks) is skipped.
type Client struct {
	websocketURL   string
	pairs          []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	conn      *websocket.Conn
	connected bool
}

// New creates a Kraken ticker stream for the given WS pair names.
func New(websocketURL string, pairs []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.TickerStream {
	return &Client{
		websocketURL:   websocketURL,
		pairs:          pairs,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("kraken ws connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.log.Info("kraken ws connected", logger.String("url", c.websocketURL))
	return nil
}

// Subscribe subscribes to the ticker channel for the configured pairs.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("kraken ws not connected")
	}
	msg := map[string]interface{}{
		"event":        "subscribe",
		"pair":         c.pairs,
		"subscription": map[string]string{"name": "ticker"},
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("kraken ws subscribe: %w", err)
	}
	c.log.Info("kraken ws subscribed", logger.Strings("pairs", c.pairs))
	return nil
}

// wsTicker is the ticker channel payload. Array slots follow the REST
// convention: index 1 is the 24 hour window for v/p/t/l/h and o.
type wsTicker struct {
	Ask    []json.Number `json:"a"`
	Bid    []json.Number `json:"b"`
	Close  []json.Number `json:"c"`
	Volume []json.Number `json:"v"`
	VWAP   []json.Number `json:"p"`
	Trades []int64       `json:"t"`
	Low    []json.Number `json:"l"`
	High   []json.Number `json:"h"`
	Open   []json.Number `json:"o"`
}

// Read streams ticker snapshots and errors. The snapshot channel is dropped
// on backpressure rather than blocking the read loop.
func (c *Client) Read(ctx context.Context) (<-chan *models.TickerSnapshot, <-chan error) {
	snaps := make(chan *models.TickerSnapshot, 256)
	errs := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	go func() {
		defer close(snaps)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("kraken ws conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("kraken ws read: %w", err)
					return
				}
				snap, ok := parseTickerEvent(b)
				if !ok {
					continue
				}
				select {
				case snaps <- snap:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return snaps, errs
}

// parseTickerEvent decodes one frame. Non-ticker frames report ok = false.
func parseTickerEvent(b []byte) (*models.TickerSnapshot, bool) {
	var frame []json.RawMessage
	if err := json.Unmarshal(b, &frame); err != nil {
		// event objects (heartbeat, systemStatus, subscriptionStatus)
		return nil, false
	}
	if len(frame) < 4 {
		return nil, false
	}

	var channel string
	if err := json.Unmarshal(frame[2], &channel); err != nil || channel != "ticker" {
		return nil, false
	}
	var pair string
	if err := json.Unmarshal(frame[3], &pair); err != nil {
		return nil, false
	}
	var t wsTicker
	if err := json.Unmarshal(frame[1], &t); err != nil {
		return nil, false
	}

	snap := &models.TickerSnapshot{Symbol: pair, ObservedAt: time.Now().Unix()}
	snap.Price = numberAt(t.Close, 0)
	snap.Open = numberAt(t.Open, 1)
	snap.High = numberAt(t.High, 1)
	snap.Low = numberAt(t.Low, 1)
	snap.Volume = numberAt(t.Volume, 1)
	snap.VWAP = numberAt(t.VWAP, 1)
	if len(t.Trades) >= 2 {
		snap.Trades = t.Trades[1]
	}
	snap.Bid = numberAt(t.Bid, 0)
	snap.Ask = numberAt(t.Ask, 0)

	if snap.Open > 0 {
		change := snap.Price - snap.Open
		changePct := change / snap.Open * 100
		snap.Change = &change
		snap.ChangePercent = &changePct
		if snap.Bid > 0 && snap.Ask > 0 {
			spread := snap.Ask - snap.Bid
			snap.Spread = &spread
		}
	}
	return snap, true
}

func numberAt(values []json.Number, i int) float64 {
	if i >= len(values) {
		return 0
	}
	v, err := strconv.ParseFloat(values[i].String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
