package testutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestSigningSecret is a dedicated test-only secret for signing keys.
// This must never be used in production
const TestSigningSecret = "test-jwt-secret-that-is-32-chars-long"

// SignKey returns a key carrying claims, signed with TestSigningSecret.
func SignKey(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(TestSigningSecret))
	if err != nil {
		t.Fatalf("failed to sign test key: %v", err)
	}
	return signed
}

// NewProjectKey returns a key shaped like the ones the platform issues:
// issuer "supabase", the given project ref and role, valid for ttl.
func NewProjectKey(t *testing.T, ref, role string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	return SignKey(t, jwt.MapClaims{
		"iss":  "supabase",
		"ref":  ref,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
}
