package middleware

import (
	"receipt_system/internal/apperr" // Error taxonomy
	"receipt_system/internal/domain" // Identity type
)

// RequireAuthenticated fails unless an identity is present
func RequireAuthenticated(identity *domain.Identity) (*domain.Identity, error) {
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication failed") // No caller identity
	}
	return identity, nil
}

// RequireAdmin fails unless an identity is present and carries the admin flag
func RequireAdmin(identity *domain.Identity) (*domain.Identity, error) {
	if identity == nil || !identity.IsAdmin {
		return nil, apperr.Unauthorized("Authentication failed") // Not an admin
	}
	return identity, nil
}

// IsOwner reports whether the caller owns the resource. The admin flag is not consulted,
// admin endpoints go through RequireAdmin instead.
func IsOwner(identity *domain.Identity, ownerID uint) bool {
	return identity != nil && identity.ID == ownerID
}
