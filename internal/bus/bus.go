// Package bus implements the price-update bus (component G) over
// Redis Pub/Sub — the only pub/sub primitive grounded anywhere in the
// retrieval pack (no Kafka/NATS import exists in any example repo).
// The publish/subscribe shape otherwise mirrors the teacher's
// api.Hub.Run consume-and-forward loop in internal/api/websocket.go.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/listenlabs/swapindexer-engine/pkg/models"
)

const channel = "price_updates"

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish writes a JSON-serialized PriceUpdate to the price_updates
// channel. Delivery is at-most-once; a missed update is superseded by
// the next one.
func (p *Publisher) Publish(ctx context.Context, update models.PriceUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal price update: %w", err)
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish price update: %w", err)
	}
	return nil
}

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Run is a long-lived task: it receives messages, deserializes them,
// and forwards them into out. It exits when ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context, out chan<- models.PriceUpdate) {
	sub := s.client.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var update models.PriceUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				log.Printf("[Subscriber] dropping malformed price update: %v", err)
				continue
			}
			select {
			case out <- update:
			case <-ctx.Done():
				return
			}
		}
	}
}
