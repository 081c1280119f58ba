// Package notify fans out materialisation summaries over Redis Pub/Sub.
// The notifications table row is the durable record; these events are
// best-effort hints for connected dashboards.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cheersai/campaign-engine/internal/logger"
)

const channelPrefix = "notifications:weekly:"

// SummaryEvent is the message published after a campaign materialises.
type SummaryEvent struct {
	AccountID  string    `json:"account_id"`
	CampaignID string    `json:"campaign_id"`
	Created    int       `json:"created"`
	Scheduled  int       `json:"scheduled"`
	Draft      int       `json:"draft"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publishes summary events to per-account channels.
type Publisher struct {
	client *redis.Client
	logger logger.Logger
}

// NewPublisher creates a new event publisher.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: log,
	}
}

// PublishSummary sends the event to "notifications:weekly:<account_id>".
func (p *Publisher) PublishSummary(ctx context.Context, event SummaryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal summary event: %w", err)
	}

	channel := channelPrefix + event.AccountID
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish summary event: %w", err)
	}

	p.logger.Debug("published summary event",
		logger.String("channel", channel),
		logger.Int("created", event.Created))

	return nil
}
