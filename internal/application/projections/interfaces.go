package projections

import "context"

// Lister is the read side every report needs from a store: all records in insertion order.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// CreditBalance reports the prepaid SMS balance.
type CreditBalance interface {
	Balance(ctx context.Context) (int, error)
}
