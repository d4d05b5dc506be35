package smsgateway

import (
	"context"
	"testing"
)

func TestLogGateway_KeepsDeliveries(t *testing.T) {
	g := NewLogGateway()
	to := []string{"0241111111", "0242222222"}
	if err := g.Deliver(context.Background(), to, "Service starts at 9am"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	to[0] = "changed"

	got := g.Deliveries()
	if len(got) != 1 || got[0].Body != "Service starts at 9am" {
		t.Fatalf("deliveries = %+v", got)
	}
	if got[0].To[0] != "0241111111" {
		t.Errorf("recipient list should be copied, got %v", got[0].To)
	}
}
