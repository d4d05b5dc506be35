// Package smsgateway delivers SMS broadcasts. No carrier integration ships with the
// application; LogGateway records deliveries in the structured log.
package smsgateway

import (
	"context"
	"log/slog"
	"sync"
)

// Delivery is one accepted SMS broadcast.
type Delivery struct {
	To   []string
	Body string
}

// LogGateway logs each broadcast and keeps it for inspection.
type LogGateway struct {
	mu         sync.Mutex
	deliveries []Delivery
}

// NewLogGateway creates an empty LogGateway.
func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

// Deliver accepts a broadcast for every recipient.
// PRE: len(to) > 0
// POST: delivery recorded and logged
func (g *LogGateway) Deliver(_ context.Context, to []string, body string) error {
	g.mu.Lock()
	g.deliveries = append(g.deliveries, Delivery{To: append([]string(nil), to...), Body: body})
	g.mu.Unlock()
	slog.Info("sms_event", "event", "delivered", "recipients", len(to), "chars", len([]rune(body)))
	return nil
}

// Deliveries returns a copy of the recorded broadcasts.
func (g *LogGateway) Deliveries() []Delivery {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Delivery, len(g.deliveries))
	copy(out, g.deliveries)
	return out
}
