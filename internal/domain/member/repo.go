package member

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("member not found")
var ErrEmailTaken = errors.New("email already registered")

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	Update(ctx context.Context, m *Member) error
	List(ctx context.Context, limit, offset int) ([]*Member, int, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
