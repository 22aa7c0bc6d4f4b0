package inquiry

import (
	"context"

	"functionhall/internal/notification"
)

type Notifier interface {
	Notify(ctx context.Context, msg notification.Message) error
}
