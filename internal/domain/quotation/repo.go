package quotation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a finalized quotation does not exist.
var ErrNotFound = errors.New("quotation not found")

// Repository stores finalized quotation snapshots.
type Repository interface {
	Save(ctx context.Context, q *Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	List(ctx context.Context, limit, offset int) ([]*Quotation, int, error)
}
