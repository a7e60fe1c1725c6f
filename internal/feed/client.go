package feed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"event-feed-agent/config"
)

// Handler receives each accepted event-creation frame. It is invoked from the
// client's single read loop, so one frame is fully processed before the next
// is dequeued.
type Handler func(Envelope)

// Client maintains one persistent connection to the notification endpoint and
// feeds accepted frames to its handler.
type Client struct {
	url     string
	dialer  *websocket.Dialer
	handler Handler

	reconnect    bool
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewClient creates a push-channel client. The handler must not be nil.
func NewClient(cfg *config.PushConfig, handler Handler) *Client {
	return &Client{
		url:          cfg.URL,
		dialer:       &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		handler:      handler,
		reconnect:    cfg.Reconnect.Enabled,
		initialDelay: time.Duration(cfg.Reconnect.InitialDelaySeconds) * time.Second,
		maxDelay:     time.Duration(cfg.Reconnect.MaxDelaySeconds) * time.Second,
	}
}

// Run connects and consumes frames until the context is cancelled or the
// connection drops. Without reconnect enabled a drop ends the feed for the
// session; with it enabled the client redials with exponential backoff.
func (c *Client) Run(ctx context.Context) {
	delay := c.initialDelay
	for {
		connected, err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if !c.reconnect {
			if err != nil {
				log.Printf("push channel closed: %v", err)
			}
			return
		}
		if connected {
			delay = c.initialDelay
		}

		log.Printf("push channel dropped (%v), reconnecting in %s", err, delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
	}
}

// runOnce dials the endpoint and reads frames until the connection fails.
// It reports whether the dial succeeded so Run can reset its backoff.
func (c *Client) runOnce(ctx context.Context) (bool, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", c.url, err)
	}

	log.Printf("push channel connected to %s", c.url)

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}

		env, ok := DecodeFrame(raw)
		if !ok {
			continue
		}
		c.handler(env)
	}
}
