package utils

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// HashPassword returns a salted bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost) // Salted, expensive hash
	if err != nil {
		return "", err // Return error if hashing fails (e.g. password over 72 bytes)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. Any error counts as a mismatch.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
