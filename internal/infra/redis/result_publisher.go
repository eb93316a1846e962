package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"timed-quiz-service/internal/domain"
)

// ResultsChannel is the pub/sub channel results are published on.
const ResultsChannel = "quiz:results"

// ResultPublisher publishes session results as JSON on a Redis channel.
// Nothing is stored; subscribers that are not listening miss the event.
type ResultPublisher struct {
	client  *redis.Client
	channel string
}

func NewResultPublisher(client *redis.Client) *ResultPublisher {
	return &ResultPublisher{client: client, channel: ResultsChannel}
}

func (p *ResultPublisher) Publish(ctx context.Context, result domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}
