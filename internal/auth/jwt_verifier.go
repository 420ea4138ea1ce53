package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
)

// Claims is the JWT claims structure issued by the identity provider. The
// organizational placement travels in the token so every request carries a
// complete principal without a user-directory lookup.
type Claims struct {
	jwt.RegisteredClaims
	Role         string `json:"role"`
	HoldingID    string `json:"holding_id"`
	CompanyID    string `json:"company_id"`
	DepartmentID string `json:"department_id"`
}

// JWKSVerifier implements TokenVerifier using a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from the
// identity provider's JWKS endpoint. Keys are cached and refreshed
// automatically based on HTTP cache headers.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, logger: logger}, nil
}

// VerifyToken validates a JWT and extracts the principal.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}
	if claims.Role == "" {
		v.logger.Debug("token missing role claim", "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return &models.Principal{
		UserID:       claims.Subject,
		Role:         claims.Role,
		HoldingID:    claims.HoldingID,
		CompanyID:    claims.CompanyID,
		DepartmentID: claims.DepartmentID,
	}, nil
}

// Close releases resources held by the verifier. keyfunc v3 manages its own
// resources, so this is a no-op kept for graceful shutdown compatibility.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
