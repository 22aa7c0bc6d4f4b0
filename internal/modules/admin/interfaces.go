package admin

import (
	"context"

	"functionhall/internal/notification"
)

// Notifier queues an SMS without waiting for delivery.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message) error
}
