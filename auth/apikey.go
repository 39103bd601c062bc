package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

// APIKeyConfig configures the static API key authenticator.
type APIKeyConfig struct {
	// HeaderName is the header containing the API key.
	// Default: "X-API-Key"
	HeaderName string

	// Keys maps SHA-256 key hashes (hex) to principal names. Plaintext
	// keys never appear in configuration or memory at rest.
	Keys map[string]string
}

// APIKeyAuthenticator validates requests against a static set of hashed
// API keys.
type APIKeyAuthenticator struct {
	config APIKeyConfig
}

// NewAPIKeyAuthenticator creates a new API key authenticator.
func NewAPIKeyAuthenticator(config APIKeyConfig) *APIKeyAuthenticator {
	if config.HeaderName == "" {
		config.HeaderName = "X-API-Key"
	}
	return &APIKeyAuthenticator{config: config}
}

// Name returns "api_key".
func (a *APIKeyAuthenticator) Name() string {
	return "api_key"
}

// Supports returns true if the request carries the API key header.
func (a *APIKeyAuthenticator) Supports(r *http.Request) bool {
	return r.Header.Get(a.config.HeaderName) != ""
}

// Authenticate hashes the presented key and matches it against the
// registered hashes in constant time.
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, r *http.Request) (*Identity, error) {
	key := strings.TrimSpace(r.Header.Get(a.config.HeaderName))
	if key == "" {
		return nil, ErrMissingCredentials
	}

	presented := HashAPIKey(key)
	for hash, principal := range a.config.Keys {
		if constantTimeEqual(presented, hash) {
			return &Identity{Principal: principal, Method: MethodAPIKey}, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// HashAPIKey hashes an API key with SHA-256 for storage and comparison.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Ensure APIKeyAuthenticator implements Authenticator
var _ Authenticator = (*APIKeyAuthenticator)(nil)
