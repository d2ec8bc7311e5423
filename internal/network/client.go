// Package network receives orientation readings from a remote sensor over
// WebSocket and publishes them to the render loop.
package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
	"github.com/Faultbox/kiss-anaglyph/internal/logger"
	"github.com/Faultbox/kiss-anaglyph/internal/network/packets"
)

// Status is the connection state of the sensor client.
type Status int32

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

// String returns a human readable status.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "Disconnected"
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Config holds sensor client settings.
type Config struct {
	URL              string        // ws:// or wss:// endpoint
	ReconnectDelay   time.Duration // Fixed wait between attempts
	HandshakeTimeout time.Duration
}

// DefaultConfig returns settings matching a relay on localhost.
func DefaultConfig() Config {
	return Config{
		URL:              "ws://localhost:3000/sensor/connect?type=android.sensor.orientation",
		ReconnectDelay:   3 * time.Second,
		HandshakeTimeout: 5 * time.Second,
	}
}

// Client keeps a WebSocket connection to a sensor feed alive and stores
// every parsed reading in an orientation.Sensor.
type Client struct {
	cfg    Config
	sensor *orientation.Sensor
	dialer *websocket.Dialer

	status   atomic.Int32
	received atomic.Uint64
	dropped  atomic.Uint64

	mu       sync.Mutex
	onStatus func(Status)
}

// NewClient creates a client that publishes into sensor.
func NewClient(cfg Config, sensor *orientation.Sensor) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultConfig().ReconnectDelay
	}
	return &Client{
		cfg:    cfg,
		sensor: sensor,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
	}
}

// OnStatus registers a callback invoked on every status change.
// It runs on the client goroutine and must not block.
func (c *Client) OnStatus(fn func(Status)) {
	c.mu.Lock()
	c.onStatus = fn
	c.mu.Unlock()
}

// Status returns the current connection status.
func (c *Client) Status() Status {
	return Status(c.status.Load())
}

// Stats returns the number of applied and dropped messages.
func (c *Client) Stats() (received, dropped uint64) {
	return c.received.Load(), c.dropped.Load()
}

// Run connects and reconnects until ctx is cancelled. Retries are unbounded;
// while disconnected the last reading stays in the sensor.
func (c *Client) Run(ctx context.Context) error {
	log := logger.Named("sensor")
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			c.setStatus(StatusDisconnected)
			return ctx.Err()
		}
		if err != nil {
			log.Warn("sensor connection lost", zap.String("url", c.cfg.URL), zap.Error(err))
			c.setStatus(StatusError)
		}
		c.setStatus(StatusDisconnected)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// session dials once and reads until the connection fails or ctx ends.
func (c *Client) session(ctx context.Context) error {
	c.setStatus(StatusConnecting)

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.cfg.URL, err)
	}
	defer conn.Close()

	c.setStatus(StatusConnected)
	logger.Info("sensor connected", zap.String("url", c.cfg.URL))

	// Unblock ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("reading sensor message: %w", err)
		}
		c.handle(data)
	}
}

func (c *Client) handle(data []byte) {
	a, err := packets.ParseOrientation(data)
	if err != nil {
		c.dropped.Add(1)
		if errors.Is(err, packets.ErrNoOrientation) {
			logger.Debug("ignoring sensor message", zap.ByteString("raw", data))
		} else {
			logger.Warn("malformed sensor message", zap.Error(err), zap.ByteString("raw", data))
		}
		return
	}
	c.sensor.Store(a)
	c.received.Add(1)
}

func (c *Client) setStatus(s Status) {
	if Status(c.status.Swap(int32(s))) == s {
		return
	}
	logger.Debug("sensor status", zap.Stringer("status", s))

	c.mu.Lock()
	fn := c.onStatus
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}
