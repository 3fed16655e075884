package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

const (
	// GlobalStream receives one entry per generation
	GlobalStream = "multis.generated"

	// DefaultMaxLen caps each stream (approximate trimming)
	DefaultMaxLen = 1000
)

// TypeStream returns the stream holding multis of a single type
func TypeStream(t models.MultiType) string {
	return fmt.Sprintf("%s.%s", GlobalStream, t)
}

// StreamPublisher publishes generated multis to Redis Streams
type StreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		maxLen: DefaultMaxLen,
	}
}

// PublishGeneration publishes the full generation to the multis.generated stream
func (p *StreamPublisher) PublishGeneration(ctx context.Context, resp models.MultiResponse) error {
	payload, err := json.Marshal(resp.Multis)
	if err != nil {
		return fmt.Errorf("failed to marshal multis: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: GlobalStream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"generation_id":            resp.ID,
			"generated_at":             resp.GeneratedAt.UTC().Format(time.RFC3339),
			"min_probability":          resp.MinProbability,
			"total_outcomes_available": resp.TotalOutcomesAvailable,
			"multis":                   string(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", GlobalStream, err)
	}

	return nil
}

// PublishMulti publishes one multi to its type stream
func (p *StreamPublisher) PublishMulti(ctx context.Context, generationID string, m models.GeneratedMulti) error {
	multiJSON, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal %s multi: %w", m.Type, err)
	}

	streamKey := TypeStream(m.Type)
	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"generation_id": generationID,
			"multi":         string(multiJSON),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", streamKey, err)
	}

	return nil
}

// Publish writes the generation to the global stream and each multi to its type stream
func (p *StreamPublisher) Publish(ctx context.Context, resp models.MultiResponse) error {
	if err := p.PublishGeneration(ctx, resp); err != nil {
		return err
	}

	for _, t := range models.AllMultiTypes {
		m, _ := resp.Multis.ByType(t)
		if err := p.PublishMulti(ctx, resp.ID, m); err != nil {
			return err
		}
	}

	return nil
}
