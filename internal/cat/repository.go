package cat

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a cat record is absent or not owned by the
// requesting user.
var ErrNotFound = errors.New("cat not found")

// Repository provides owner-scoped CRUD operations on the cats table. Every
// read, update and delete carries a mandatory ownerID equality filter; there
// is no unscoped accessor.
type Repository interface {
	Create(ctx context.Context, c *Cat) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Cat, error)
	List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]Cat, error)
	ListByBreed(ctx context.Context, ownerID uuid.UUID, breed string, skip, limit int) ([]Cat, error)
	ListByAgeRange(ctx context.Context, ownerID uuid.UUID, minAge, maxAge, skip, limit int) ([]Cat, error)
	SearchByDescription(ctx context.Context, ownerID uuid.UUID, term string, skip, limit int) ([]Cat, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, fields UpdateFields) (*Cat, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
