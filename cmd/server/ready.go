package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/groupcal/internal/events"
	"github.com/mmynk/groupcal/internal/storage"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ready checks the store, when it can be pinged, and the NATS connection, when
// events are enabled.
func ready(ctx context.Context, store storage.Store, nc *events.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if p, ok := store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("store: %w", err)
		}
	}
	if nc != nil {
		if err := nc.Healthy(); err != nil {
			return err
		}
	}
	return nil
}
