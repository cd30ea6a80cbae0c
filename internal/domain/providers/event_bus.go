package providers

import (
	"context"

	"github.com/appointmentcake/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.CompanyEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CompanyEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelCompanyUpdates is the channel for all company updates
	EventChannelCompanyUpdates = "company:updates"

	// EventChannelCompanyPrefix is the prefix for company-specific channels
	EventChannelCompanyPrefix = "company:"
)

// GetCompanyChannel returns the channel name for a specific company
func GetCompanyChannel(companyID string) string {
	return EventChannelCompanyPrefix + companyID
}
