package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/redis/go-redis/v9"
)

// streamMaxLen trims the update stream to roughly this many entries
const streamMaxLen = 1000

// Streamer is the Redis stream command the publisher needs
type Streamer interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher publishes season updates to Redis streams
type StreamPublisher struct {
	client Streamer
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client Streamer) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// StreamKey is the per-team update stream
func StreamKey(team string) string {
	return fmt.Sprintf("courtside.updates.%s", team)
}

// PublishSeasonLoaded announces a freshly loaded season
func (p *StreamPublisher) PublishSeasonLoaded(ctx context.Context, team string, summary models.SeasonSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling season summary: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(team),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":   models.MessageTypeSeasonLoaded,
			"season": summary.Season,
			"data":   string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", StreamKey(team), err)
	}
	return nil
}
