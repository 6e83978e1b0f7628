package notes

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("note not found")

// Repository persists member notes. All operations are scoped to the owning
// member.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, memberID, id uuid.UUID) (*Note, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Note, int, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, memberID, id uuid.UUID) error
}
