package service

import (
	"planner-api/logger"

	"golang.org/x/crypto/bcrypt"
)

// Passwords are hashed with bcrypt, and only with bcrypt: the scheme is
// fixed at the point where credentials are written, so verification never
// has to inspect the stored value to figure out how to compare it.

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
