package entity

import (
	"time"

	"github.com/google/uuid"
)

type Staff struct {
	Base
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	DisplayName  string `db:"display_name"`
	IsActive     bool   `db:"is_active"`
}

type StaffSession struct {
	Token     uuid.UUID `db:"token"`
	StaffID   uuid.UUID `db:"staff_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
