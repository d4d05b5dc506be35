package memory

import (
	"context"
	"sync"
	"testing"
)

// TestCredits_DebitLeavesBalanceOnFailure verifies a failed debit changes nothing.
func TestCredits_DebitLeavesBalanceOnFailure(t *testing.T) {
	ctx := context.Background()
	c := NewCredits(10)
	if err := c.Debit(ctx, 4); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if err := c.Debit(ctx, 7); err != ErrInsufficientBalance {
		t.Fatalf("Debit err = %v, want ErrInsufficientBalance", err)
	}
	if b, _ := c.Balance(ctx); b != 6 {
		t.Fatalf("Balance = %d, want 6", b)
	}
	if b, _ := c.Credit(ctx, 5); b != 11 {
		t.Fatalf("Credit balance = %d, want 11", b)
	}
}

// TestCredits_ConcurrentDebit verifies the balance never goes negative.
func TestCredits_ConcurrentDebit(t *testing.T) {
	ctx := context.Background()
	c := NewCredits(50)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Debit(ctx, 1)
		}()
	}
	wg.Wait()
	if b, _ := c.Balance(ctx); b != 0 {
		t.Fatalf("Balance = %d, want 0", b)
	}
}
