package notifier

import (
	"context"

	"github.com/aleister1102/jsmon/internal/models"
)

// Channel delivers one event to one destination
type Channel interface {
	Name() string
	Send(ctx context.Context, event models.NotificationEvent) error
}
