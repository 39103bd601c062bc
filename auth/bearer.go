package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerConfig configures the bearer token authenticator. Tokens are
// HMAC-signed (HS256); asymmetric schemes are out of scope for a
// single-service deployment.
type BearerConfig struct {
	// Secret is the HMAC signing secret. Required.
	Secret []byte

	// Issuer is the expected iss claim. Empty disables the check.
	Issuer string

	// Audience is the expected aud claim. Empty disables the check.
	Audience string
}

// BearerAuthenticator validates Authorization: Bearer tokens.
type BearerAuthenticator struct {
	config BearerConfig
	parser *jwt.Parser
}

// NewBearerAuthenticator creates a new bearer token authenticator.
func NewBearerAuthenticator(config BearerConfig) *BearerAuthenticator {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}

	return &BearerAuthenticator{
		config: config,
		parser: jwt.NewParser(opts...),
	}
}

// Name returns "bearer".
func (a *BearerAuthenticator) Name() string {
	return "bearer"
}

// Supports returns true if the request carries a bearer token.
func (a *BearerAuthenticator) Supports(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// Authenticate parses and validates the token.
func (a *BearerAuthenticator) Authenticate(_ context.Context, r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" || tokenString == header {
		return nil, ErrMissingCredentials
	}

	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.config.Secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	case err != nil:
		return nil, ErrInvalidCredentials
	case !token.Valid:
		return nil, ErrInvalidCredentials
	}

	identity := &Identity{Method: MethodBearer}
	if sub, ok := claims["sub"].(string); ok {
		identity.Principal = sub
	}
	if exp, ok := claims["exp"].(float64); ok {
		identity.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return identity, nil
}

// Ensure BearerAuthenticator implements Authenticator
var _ Authenticator = (*BearerAuthenticator)(nil)
