package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Delivery is one copy the NoopSender would have sent.
type Delivery struct {
	To string
	Message
}

// NoopSender stands in when no Resend key is configured: it logs each broadcast
// and keeps the copies in memory.
type NoopSender struct {
	mu   sync.Mutex
	sent []Delivery
}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Broadcast records one Delivery per address.
func (s *NoopSender) Broadcast(_ context.Context, msg Message, to []string) (Report, error) {
	rep := Report{Sent: len(to)}
	s.mu.Lock()
	for _, addr := range to {
		s.sent = append(s.sent, Delivery{To: addr, Message: msg})
		rep.MessageIDs = append(rep.MessageIDs, fmt.Sprintf("noop-%d", len(s.sent)))
	}
	s.mu.Unlock()
	rep.FinishedAt = time.Now()
	slog.Info("email_event", "event", "broadcast_logged", "provider", "noop", "recipients", len(to), "subject", msg.Subject)
	return rep, nil
}

// Sent returns every copy recorded so far.
func (s *NoopSender) Sent() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Delivery(nil), s.sent...)
}
