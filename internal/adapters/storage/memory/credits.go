package memory

import (
	"context"
	"errors"
	"sync"
)

// ErrInsufficientBalance is returned when a debit exceeds the balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Credits is a mutex-guarded prepaid unit balance (SMS credits).
// INVARIANT: balance never goes negative
type Credits struct {
	mu      sync.Mutex
	balance int
}

// NewCredits creates an account holding opening units.
func NewCredits(opening int) *Credits {
	if opening < 0 {
		opening = 0
	}
	return &Credits{balance: opening}
}

// Balance returns the current units.
func (c *Credits) Balance(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance, nil
}

// Debit removes n units, or fails without touching the balance.
// PRE: n >= 0
// POST: balance decreased by n, or ErrInsufficientBalance and balance unchanged
func (c *Credits) Debit(_ context.Context, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > c.balance {
		return ErrInsufficientBalance
	}
	c.balance -= n
	return nil
}

// Credit adds n units and returns the new balance.
func (c *Credits) Credit(_ context.Context, n int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance += n
	return c.balance, nil
}
