package changerequest

import (
	"context"

	"functionhall/internal/domain"
	"functionhall/internal/notification"
)

// Notifier queues an SMS without waiting for delivery.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message) error
}

// HallIndexer mirrors approved catalog changes into the search index.
type HallIndexer interface {
	IndexHall(ctx context.Context, h *domain.Hall) error
	DeleteHall(ctx context.Context, id int64) error
}

// EventPublisher pushes review events to connected admin dashboards.
type EventPublisher interface {
	Publish(eventType string, payload any)
}
