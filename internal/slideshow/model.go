package slideshow

import (
	"time"

	"github.com/google/uuid"
)

// Slideshow represents a row in the slideshows table. CatID is nullable; the
// referenced cat is expected to belong to the same owner, though no
// constraint enforces it.
type Slideshow struct {
	ID          uuid.UUID
	Title       string
	Description *string
	ImageURLs   []string
	CatID       *uuid.UUID
	UserID      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateFields holds user-updatable fields on a slideshow record.
// Nil fields are not updated.
type UpdateFields struct {
	Title       *string
	Description *string
	ImageURLs   *[]string
	CatID       *uuid.UUID
}
