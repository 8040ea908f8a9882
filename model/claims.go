package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the payload carried by every signed token. Type discriminates
// access tokens from refresh tokens and is checked by every consumer.
// Role is only set on access tokens.
type AppClaims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"typ"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
