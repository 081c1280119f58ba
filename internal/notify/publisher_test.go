package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/cheersai/campaign-engine/internal/logger"
	"github.com/cheersai/campaign-engine/internal/notify"
)

func TestPublishSummary(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	ctx := context.Background()
	event := notify.SummaryEvent{
		AccountID:  "acct-123",
		CampaignID: "camp-456",
		Created:    3,
		Scheduled:  3,
		Message:    "Created 3 weekly posts for Quiz Night (3 scheduled)",
		OccurredAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	sub := client.Subscribe(ctx, "notifications:weekly:acct-123")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err, "subscribe confirmation")

	publisher := notify.NewPublisher(client, logger.NewNopLogger())
	require.NoError(t, publisher.PublishSummary(ctx, event))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err, "receive published event")

	var got notify.SummaryEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	require.Equal(t, event.AccountID, got.AccountID)
	require.Equal(t, event.Created, got.Created)
	require.Equal(t, event.Message, got.Message)
	require.True(t, got.OccurredAt.Equal(event.OccurredAt))
}

func TestPublishSummary_ConnectionFailure(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	srv.Close()

	publisher := notify.NewPublisher(client, logger.NewNopLogger())
	err := publisher.PublishSummary(context.Background(), notify.SummaryEvent{AccountID: "acct-123"})
	require.Error(t, err, "publishing to a closed server must fail")
}
