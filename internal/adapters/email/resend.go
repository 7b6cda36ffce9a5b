package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends mail through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	replyTo string
}

// NewResendSender creates a sender with default from and reply-to addresses.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
func NewResendSender(apiKey, from, replyTo string) *ResendSender {
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		replyTo: replyTo,
	}
}

// Send submits one message.
// PRE: req has at least one recipient and a subject
// POST: Message is queued for delivery; returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: s.replyTo,
	}
	if req.From != "" {
		params.From = req.From
	}
	if req.ReplyTo != "" {
		params.ReplyTo = req.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("email_event", "event", "resend_failed", "error", err, "subject", req.Subject)
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	slog.Info("email_event", "event", "resend_sent", "message_id", sent.Id, "subject", req.Subject)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}
