package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// StreamName is the JetStream stream holding group events.
const StreamName = "GROUPCAL_EVENTS"

// EnsureStream creates the events stream if it does not exist yet.
func EnsureStream(js nats.JetStreamContext) error {
	if _, err := js.StreamInfo(StreamName); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return err
		}
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:      StreamName,
			Subjects:  []string{SubjectPrefix + ".>"},
			Retention: nats.LimitsPolicy,
			Storage:   nats.FileStorage,
			Replicas:  1,
			MaxAge:    24 * time.Hour,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Client is a NATS connection with its JetStream context.
type Client struct {
	Conn *nats.Conn
	JS   nats.JetStreamContext
}

// Connect dials url and makes sure the events stream exists.
func Connect(url string) (*Client, error) {
	conn, err := nats.Connect(url, nats.Name("groupcal"))
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		_ = conn.Drain()
		conn.Close()
		return nil, err
	}
	if err := EnsureStream(js); err != nil {
		_ = conn.Drain()
		conn.Close()
		return nil, err
	}
	return &Client{Conn: conn, JS: js}, nil
}

// ConnectWithRetry retries Connect until it succeeds or timeout elapses.
func ConnectWithRetry(url string, timeout time.Duration) (*Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := Connect(url)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("connect jetstream timeout after %s: %w", timeout, lastErr)
}

// Close drains and closes the connection.
func (c *Client) Close() {
	if c == nil || c.Conn == nil {
		return
	}
	_ = c.Conn.Drain()
	c.Conn.Close()
}

// Healthy reports whether the connection is up.
func (c *Client) Healthy() error {
	if c == nil || c.Conn == nil {
		return errors.New("nats connection is nil")
	}
	if c.Conn.Status() != nats.CONNECTED {
		return fmt.Errorf("nats is not connected: %s", c.Conn.Status().String())
	}
	return nil
}

// JetStreamPublisher publishes events as JSON on JetStream. The event ID is
// used as the message ID so redelivered publishes are de-duplicated.
type JetStreamPublisher struct {
	JS nats.JetStreamContext
}

func (p JetStreamPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := p.JS.Publish(Subject(e), payload, nats.Context(ctx), nats.MsgId(e.ID)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}
