package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fatih/structs"
	"github.com/rocketman2178/healthrocket-backend/pkg/pubsub"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

type StatusChangedEvent struct {
	UserID    string `json:"user_id" structs:"user_id"`
	OldStatus string `json:"old_status" structs:"old_status"`
	NewStatus string `json:"new_status" structs:"new_status"`
}

type PrizeAwardedEvent struct {
	UserID    string `json:"user_id" structs:"user_id"`
	PrizeID   string `json:"prize_id" structs:"prize_id"`
	PrizeName string `json:"prize_name" structs:"prize_name"`
	Period    string `json:"period" structs:"period"`
}

type ActivityCompletedEvent struct {
	UserID     string `json:"user_id" structs:"user_id"`
	ActivityID string `json:"activity_id" structs:"activity_id"`
	FuelPoints int    `json:"fuel_points" structs:"fuel_points"`
}

// Notifier publishes player-facing events. Delivery is fire-and-forget; a
// broker hiccup never fails the business operation that raised the event.
type Notifier interface {
	Notify(ctx context.Context, event any)
}

type notifier struct {
	publisher pubsub.Publisher
}

func NewNotifier(publisher pubsub.Publisher) *notifier {
	return &notifier{publisher: publisher}
}

func (n *notifier) Notify(ctx context.Context, event any) {
	s := structs.New(event)
	s.TagName = "structs"

	payload := s.Map()
	payload["type"] = s.Name()
	payload["at"] = xcontext.Now(ctx).Format(time.RFC3339)

	b, err := json.Marshal(payload)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal notification: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Notification.Topic
	if err := n.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(s.Name()), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish notification: %v", err)
	}
}
