package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Password hashes live only in Postgres.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}
