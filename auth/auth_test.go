package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestChain_EmptyAdmitsAnonymous(t *testing.T) {
	chain := NewChain()
	r := httptest.NewRequest("POST", "/invoke", nil)

	id, err := chain.Authenticate(context.Background(), r)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if id.Principal != "anonymous" || id.Method != MethodNone {
		t.Errorf("identity = %+v, want anonymous/none", id)
	}
}

func TestChain_NoCredential(t *testing.T) {
	chain := NewChain(NewAPIKeyAuthenticator(APIKeyConfig{
		Keys: map[string]string{HashAPIKey("k1"): "ci"},
	}))
	r := httptest.NewRequest("POST", "/invoke", nil)

	if _, err := chain.Authenticate(context.Background(), r); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("Authenticate() error = %v, want ErrMissingCredentials", err)
	}
}

func TestAPIKeyAuthenticator(t *testing.T) {
	a := NewAPIKeyAuthenticator(APIKeyConfig{
		Keys: map[string]string{
			HashAPIKey("topsecret"): "pipeline",
		},
	})

	tests := []struct {
		name      string
		key       string
		wantErr   error
		principal string
	}{
		{"valid key", "topsecret", nil, "pipeline"},
		{"valid key with whitespace", "  topsecret  ", nil, "pipeline"},
		{"wrong key", "nope", ErrInvalidCredentials, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/invoke", nil)
			r.Header.Set("X-API-Key", tt.key)

			if !a.Supports(r) {
				t.Fatal("Supports() = false, want true")
			}

			id, err := a.Authenticate(context.Background(), r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if id.Principal != tt.principal || id.Method != MethodAPIKey {
				t.Errorf("identity = %+v, want principal %q", id, tt.principal)
			}
		})
	}
}

func TestAPIKeyAuthenticator_CustomHeader(t *testing.T) {
	a := NewAPIKeyAuthenticator(APIKeyConfig{
		HeaderName: "X-Proxy-Key",
		Keys:       map[string]string{HashAPIKey("k"): "p"},
	})

	r := httptest.NewRequest("POST", "/invoke", nil)
	r.Header.Set("X-API-Key", "k")
	if a.Supports(r) {
		t.Error("Supports() should ignore the default header when a custom one is set")
	}
}

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func TestBearerAuthenticator(t *testing.T) {
	secret := []byte("0123456789abcdef")
	a := NewBearerAuthenticator(BearerConfig{Secret: secret, Issuer: "safelaw"})

	valid := signToken(t, secret, jwt.MapClaims{
		"sub": "operator",
		"iss": "safelaw",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, secret, jwt.MapClaims{
		"sub": "operator",
		"iss": "safelaw",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongIssuer := signToken(t, secret, jwt.MapClaims{
		"sub": "operator",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := signToken(t, []byte("another secret!!"), jwt.MapClaims{
		"sub": "operator",
		"iss": "safelaw",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", valid, nil},
		{"expired", expired, ErrTokenExpired},
		{"wrong issuer", wrongIssuer, ErrInvalidCredentials},
		{"wrong key", wrongKey, ErrInvalidCredentials},
		{"garbage", "not.a.token", ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/invoke", nil)
			r.Header.Set("Authorization", "Bearer "+tt.token)

			if !a.Supports(r) {
				t.Fatal("Supports() = false, want true")
			}

			id, err := a.Authenticate(context.Background(), r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if id.Principal != "operator" || id.Method != MethodBearer {
				t.Errorf("identity = %+v", id)
			}
			if id.IsExpired() {
				t.Error("IsExpired() = true for a live token")
			}
		})
	}
}
