// Package email delivers transactional mail such as payment receipts.
package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // overrides the sender default when set
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the provider's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a message through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
