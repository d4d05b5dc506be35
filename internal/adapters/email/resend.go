package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers broadcasts through the Resend batch API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender that mails from the given address.
// PRE: apiKey is a Resend API key; from is a verified sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// Broadcast sends one copy of msg per address, MaxBatch copies per API call.
// A failed call stops the broadcast; copies from earlier calls have already gone out.
func (s *ResendSender) Broadcast(ctx context.Context, msg Message, to []string) (Report, error) {
	var rep Report
	for i, chunk := range batches(to, MaxBatch) {
		reqs := make([]*resend.SendEmailRequest, 0, len(chunk))
		for _, addr := range chunk {
			reqs = append(reqs, s.copyFor(addr, msg))
		}
		resp, err := s.client.Batch.SendWithContext(ctx, reqs)
		if err != nil {
			slog.Error("email_event", "event", "batch_failed", "batch", i+1, "size", len(chunk), "sent", rep.Sent, "error", err)
			rep.FinishedAt = time.Now()
			return rep, fmt.Errorf("resend batch %d: %w", i+1, err)
		}
		for _, item := range resp.Data {
			rep.MessageIDs = append(rep.MessageIDs, item.Id)
		}
		rep.Sent += len(chunk)
	}
	rep.FinishedAt = time.Now()
	slog.Info("email_event", "event", "broadcast_sent", "provider", "resend", "recipients", rep.Sent, "subject", msg.Subject)
	return rep, nil
}

func (s *ResendSender) copyFor(addr string, msg Message) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{addr},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		Tags:    []resend.Tag{{Name: "category", Value: "broadcast"}},
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}
	return req
}
