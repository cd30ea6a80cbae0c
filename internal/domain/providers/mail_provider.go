package providers

import (
	"context"
)

// MailProvider defines the interface for sending transactional email
type MailProvider interface {
	// Send delivers a single message to one recipient
	Send(ctx context.Context, to, subject, htmlBody string) error
}
