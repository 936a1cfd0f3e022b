package slideshow

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a slideshow record is absent or not owned by
// the requesting user.
var ErrNotFound = errors.New("slideshow not found")

// Repository provides owner-scoped CRUD operations on the slideshows table.
type Repository interface {
	Create(ctx context.Context, s *Slideshow) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Slideshow, error)
	List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]Slideshow, error)
	ListByCat(ctx context.Context, ownerID, catID uuid.UUID, skip, limit int) ([]Slideshow, error)
	SearchByTitle(ctx context.Context, ownerID uuid.UUID, term string, skip, limit int) ([]Slideshow, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, fields UpdateFields) (*Slideshow, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
