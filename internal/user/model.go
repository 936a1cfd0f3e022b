package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. Users are materialized on first
// successful login and never deleted by this system.
type User struct {
	ID         uuid.UUID
	Email      string
	CognitoSub string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NameFromEmail derives a default display name from an email's local part.
func NameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
