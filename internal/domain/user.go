package domain

import "time"

type Role string

const (
	RoleGuest   Role = "guest"
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email" validate:"required,email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
