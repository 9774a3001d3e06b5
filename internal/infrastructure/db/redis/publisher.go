package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

const accountEventsChannel = "karibu:account-events"

// EventPublisher fans account lifecycle events out over Redis pub/sub for
// the real-time notification transport to pick up.
type EventPublisher struct {
	client *redis.Client
}

// NewEventPublisher creates an EventPublisher wrapping the given Redis client.
func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// Publish serialises the event as JSON and publishes it on the account
// events channel.
func (p *EventPublisher) Publish(ctx context.Context, event ports.AccountEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal account event: %w", err)
	}
	if err := p.client.Publish(ctx, accountEventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish account event: %w", err)
	}
	return nil
}
