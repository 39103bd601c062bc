// Package auth authenticates callers of the proxy's invoke endpoint.
// Two schemes are supported: static SHA-256-hashed API keys and
// HMAC-signed bearer tokens. A Chain composes them; an empty chain
// admits anonymous callers for closed-network deployments.
package auth
