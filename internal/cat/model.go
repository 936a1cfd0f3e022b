package cat

import (
	"time"

	"github.com/google/uuid"
)

// Cat represents a row in the cats table.
type Cat struct {
	ID          uuid.UUID
	Name        string
	Breed       *string
	Age         *int
	Color       *string
	Description *string
	ImageURLs   []string
	UserID      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateFields holds user-updatable fields on a cat record.
// Nil fields are not updated.
type UpdateFields struct {
	Name        *string
	Breed       *string
	Age         *int
	Color       *string
	Description *string
	ImageURLs   *[]string
}
