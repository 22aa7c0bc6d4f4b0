package booking

import (
	"context"

	"functionhall/internal/notification"
)

// Notifier queues an SMS without waiting for delivery.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message) error
}

// EventPublisher pushes booking events to connected admin dashboards.
type EventPublisher interface {
	Publish(eventType string, payload any)
}
