package auth

import "orgvault/internal/domain/models"

// TokenVerifier defines the interface for JWT token verification.
// This abstraction allows for different verification implementations while
// keeping the middleware agnostic to the verification details.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the principal
	// described by its claims. Returns an error if the token is invalid,
	// expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Principal, error)

	// Close releases any resources held by the verifier.
	Close() error
}
