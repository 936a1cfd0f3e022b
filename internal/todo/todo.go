// Package todo is the standalone CRUD demo entity that predates the
// multi-tenant schema. It has no owner column and no auth requirement.
package todo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a todo record is not found.
var ErrNotFound = errors.New("todo not found")

// Todo represents a row in the todos table.
type Todo struct {
	ID        uuid.UUID
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateFields holds updatable fields on a todo record. Nil fields are not
// updated.
type UpdateFields struct {
	Title     *string
	Completed *bool
}

// Repository provides CRUD operations on the todos table.
type Repository interface {
	Create(ctx context.Context, t *Todo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Todo, error)
	List(ctx context.Context, skip, limit int) ([]Todo, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
