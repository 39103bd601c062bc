package auth

import (
	"context"
	"net/http"
	"time"
)

// Method indicates how a caller was authenticated.
type Method string

const (
	MethodNone   Method = "none"
	MethodAPIKey Method = "api_key"
	MethodBearer Method = "bearer"
)

// Identity is the authenticated caller of the proxy.
type Identity struct {
	// Principal identifies the caller (key name or token subject).
	Principal string

	// Method indicates how authentication was performed.
	Method Method

	// ExpiresAt is when the credential expires (zero = never).
	ExpiresAt time.Time
}

// IsExpired reports whether the credential has expired.
func (id *Identity) IsExpired() bool {
	if id.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(id.ExpiresAt)
}

// Authenticator validates one credential scheme on an incoming request.
type Authenticator interface {
	// Name identifies the scheme for logging.
	Name() string

	// Supports reports whether the request carries this scheme's credential.
	Supports(r *http.Request) bool

	// Authenticate validates the credential. The error is one of the
	// package sentinels when validation fails.
	Authenticate(ctx context.Context, r *http.Request) (*Identity, error)
}

// Chain tries each authenticator whose scheme appears on the request.
// An empty chain admits every request anonymously.
type Chain struct {
	authenticators []Authenticator
}

// NewChain creates an authenticator chain.
func NewChain(authenticators ...Authenticator) *Chain {
	return &Chain{authenticators: authenticators}
}

// Authenticate resolves the request to an identity. When no configured
// scheme is present the request is rejected with ErrMissingCredentials.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) (*Identity, error) {
	if len(c.authenticators) == 0 {
		return &Identity{Principal: "anonymous", Method: MethodNone}, nil
	}

	for _, a := range c.authenticators {
		if !a.Supports(r) {
			continue
		}
		return a.Authenticate(ctx, r)
	}
	return nil, ErrMissingCredentials
}
