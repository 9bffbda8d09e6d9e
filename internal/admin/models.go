// Package admin owns dashboard accounts and login.
package admin

import (
	"time"

	"github.com/google/uuid"
)

// Admin is one dashboard account. PasswordHash is a bcrypt hash and never
// serializes.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
