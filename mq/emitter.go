package mq

import (
	"context"
	"encoding/json"
	"log"

	"glowdesk/models"
	"glowdesk/rdx"
)

const channel = "entity-events"

// Emit publishes an entity-change event to redis. Failures are logged and
// swallowed: events only drive cache invalidation, never correctness.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", eventName, err)
	}
}

// StartInvalidationWorker subscribes to entity-change events and drops the
// cache entries the changed entity feeds.
func StartInvalidationWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[InvalidationWorker] Listening for entity events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[InvalidationWorker] Failed to parse event: %v", err)
			continue
		}

		switch event.EntityType {
		case "service":
			if err := rdx.RdxDel(rdx.KeyActiveServices); err != nil {
				log.Printf("[InvalidationWorker] service cache: %v", err)
			}
		case "review":
			if err := rdx.RdxDelPrefix(rdx.KeyReviewStats); err != nil {
				log.Printf("[InvalidationWorker] review stats cache: %v", err)
			}
		}
	}
}
