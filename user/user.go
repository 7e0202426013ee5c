package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// StartingWallet is credited to every newly registered account.
const StartingWallet int64 = 100

type User struct {
	ID           uuid.UUID  `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         Role       `db:"role"`
	Wallet       int64      `db:"wallet"`
	IDCardNumber *string    `db:"id_card_number"`
	ActiveTripID *uuid.UUID `db:"active_trip_id"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
