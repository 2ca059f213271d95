package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted identity record. PasswordHash is internal only and
// must never cross the transport boundary.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
