package models

import (
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
)

type User struct {
	ID           int        `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Fullname     string     `json:"fullname" db:"full_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         roles.Role `json:"role" db:"role"`
	Active       bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type CreateUserRequest struct {
	Username string     `json:"username" binding:"required,min=3,max=50"`
	Password string     `json:"password" binding:"required,min=6,max=100"`
	Fullname string     `json:"fullname" binding:"required,min=2,max=100"`
	Role     roles.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// Actor is the principal a mutation is attributed to.
type Actor struct {
	ID       int
	Username string
}

// CreatedBy is the nullable created_by_id value for rows attributed to the actor.
func (a Actor) CreatedBy() *int {
	if a.ID == 0 {
		return nil
	}
	id := a.ID
	return &id
}
