package partner

import (
	"context"

	domain "churchdesk/internal/domain/partnership"
)

// ErrNotFound is returned when no partner has the requested id.
var ErrNotFound = domain.ErrPartnerNotFound

// Store persists Partner state. It is the only durable store in the application.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Partner, error)
	Save(ctx context.Context, value domain.Partner) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Partner, error)
}
