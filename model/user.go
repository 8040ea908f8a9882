package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never serialized.
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
