package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "churchdesk/internal/adapters/email"
	"churchdesk/internal/adapters/markdown"
	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/sms"
)

// MessageStore defines the broadcast log operations.
type MessageStore interface {
	Create(ctx context.Context, build func(id string) (sms.Message, error)) (sms.Message, error)
}

// CreditAccount is the prepaid SMS balance.
type CreditAccount interface {
	Balance(ctx context.Context) (int, error)
	Debit(ctx context.Context, n int) error
	Credit(ctx context.Context, n int) (int, error)
}

// SMSGateway delivers one SMS body to many numbers.
type SMSGateway interface {
	Deliver(ctx context.Context, to []string, body string) error
}

// EmailSender delivers one private copy of a broadcast to each address.
type EmailSender interface {
	Broadcast(ctx context.Context, msg emailAdapter.Message, to []string) (emailAdapter.Report, error)
}

// SegmentRecorder receives billed SMS segments for metrics. Optional.
type SegmentRecorder interface {
	RecordSMSSegments(n int)
}

// BroadcastDeps holds dependencies for the broadcast orchestrators.
type BroadcastDeps struct {
	MessageStore MessageStore
	Credits      CreditAccount
	SMS          SMSGateway
	Email        EmailSender
	MemberStore  MemberLookup
	Recorder     SegmentRecorder
	Now          func() time.Time
}

// SendBroadcastInput carries input for the orchestrator.
// Recipients are the union of the raw addresses and the contacts of MemberIDs.
type SendBroadcastInput struct {
	Channel    string // sms or email
	Subject    string // email only
	Body       string // markdown for email
	MemberIDs  []string
	Recipients []string
}

// ExecuteSendBroadcast sends a message to every resolved recipient.
// SMS costs Segments(body) credits per recipient and is refused outright when the
// balance is short; email is free.
// PRE: non-empty body, at least one reachable recipient
// POST: message logged; SMS balance reduced by Cost on success, unchanged otherwise
func ExecuteSendBroadcast(ctx context.Context, input SendBroadcastInput, deps BroadcastDeps) (sms.Message, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	recipients, err := resolveRecipients(ctx, input, deps.MemberStore)
	if err != nil {
		return sms.Message{}, err
	}
	msg := sms.Message{
		Recipients: recipients,
		Subject:    strings.TrimSpace(input.Subject),
		Body:       strings.TrimSpace(input.Body),
		Channel:    input.Channel,
	}
	if err := msg.Validate(); err != nil {
		return sms.Message{}, err
	}

	var sendErr error
	switch msg.Channel {
	case sms.ChannelSMS:
		msg.Segments = sms.Segments(msg.Body)
		msg.Cost = sms.Cost(msg.Body, len(recipients))
		if err := deps.Credits.Debit(ctx, msg.Cost); err != nil {
			if errors.Is(err, memory.ErrInsufficientBalance) {
				balance, _ := deps.Credits.Balance(ctx)
				slog.Warn("sms_event", "event", "insufficient_credit", "cost", msg.Cost, "balance", balance)
				return sms.Message{}, sms.ErrInsufficientCredit
			}
			return sms.Message{}, err
		}
		sendErr = deps.SMS.Deliver(ctx, recipients, msg.Body)
		if sendErr != nil {
			if _, err := deps.Credits.Credit(ctx, msg.Cost); err != nil {
				slog.Error("sms_event", "event", "refund_failed", "cost", msg.Cost, "error", err)
			}
		} else if deps.Recorder != nil {
			deps.Recorder.RecordSMSSegments(msg.Cost)
		}
	case sms.ChannelEmail:
		sendErr = sendEmailBroadcast(ctx, msg, deps.Email)
	}

	msg.Status = sms.StatusSent
	if sendErr != nil {
		msg.Status = sms.StatusFailed
		msg.Cost = 0
	}
	msg.SentAt = now()
	logged, err := deps.MessageStore.Create(ctx, func(id string) (sms.Message, error) {
		m := msg
		m.ID = id
		return m, nil
	})
	if err != nil {
		return sms.Message{}, err
	}
	if sendErr != nil {
		slog.Error("sms_event", "event", "broadcast_failed", "message_id", logged.ID, "channel", logged.Channel, "error", sendErr)
		return logged, fmt.Errorf("deliver %s broadcast: %w", logged.Channel, sendErr)
	}
	slog.Info("sms_event", "event", "broadcast_sent", "message_id", logged.ID, "channel", logged.Channel, "recipients", len(recipients), "cost", logged.Cost)
	return logged, nil
}

func sendEmailBroadcast(ctx context.Context, msg sms.Message, sender EmailSender) error {
	html, err := markdown.ToHTML(msg.Body)
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}
	subject := msg.Subject
	if subject == "" {
		subject = "Church announcement"
	}
	_, err = sender.Broadcast(ctx, emailAdapter.Message{Subject: subject, HTML: html, Text: msg.Body}, msg.Recipients)
	return err
}

// resolveRecipients merges raw addresses with member contacts for the channel,
// dropping blanks and duplicates while keeping first-seen order.
func resolveRecipients(ctx context.Context, input SendBroadcastInput, members MemberLookup) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, r := range input.Recipients {
		add(r)
	}
	for _, id := range input.MemberIDs {
		if members == nil {
			break
		}
		m, err := members.GetByID(ctx, id)
		if errors.Is(err, memory.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if input.Channel == sms.ChannelEmail {
			add(m.Email)
		} else {
			add(m.Phone)
		}
	}
	return out, nil
}

// ExecuteTopUpCredits adds prepaid SMS credits and returns the new balance.
func ExecuteTopUpCredits(ctx context.Context, units int, deps BroadcastDeps) (int, error) {
	if units <= 0 {
		return 0, sms.ErrNonPositiveTopUp
	}
	balance, err := deps.Credits.Credit(ctx, units)
	if err != nil {
		return 0, err
	}
	slog.Info("sms_event", "event", "credits_topped_up", "units", units, "balance", balance)
	return balance, nil
}
