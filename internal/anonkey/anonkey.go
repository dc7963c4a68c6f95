// Package anonkey decodes Supabase API keys for diagnostics. Keys are never
// signature-verified here; only the platform can do that.
package anonkey

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/supaconf/internal/config"
)

// Roles issued by the platform.
const (
	RoleAnon        = "anon"
	RoleServiceRole = "service_role"
)

// Claims is the decoded payload of a project API key.
type Claims struct {
	Issuer    string
	Ref       string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type keyClaims struct {
	Ref  string `json:"ref"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Inspect decodes key without verifying its signature.
func Inspect(key string) (Claims, error) {
	if key == "" {
		return Claims{}, ErrMissingKey
	}

	var kc keyClaims
	if _, _, err := jwt.NewParser().ParseUnverified(key, &kc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}

	c := Claims{
		Issuer: kc.Issuer,
		Ref:    kc.Ref,
		Role:   kc.Role,
	}
	if kc.IssuedAt != nil {
		c.IssuedAt = kc.IssuedAt.Time
	}
	if kc.ExpiresAt != nil {
		c.ExpiresAt = kc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the key carries an expiry that is before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// ProjectRef extracts the project reference from a hosted project URL
// (https://<ref>.supabase.co). It returns "" for self-hosted or local URLs.
func ProjectRef(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range []string{".supabase.co", ".supabase.in"} {
		if strings.HasSuffix(host, suffix) {
			ref := strings.TrimSuffix(host, suffix)
			if ref != "" && !strings.Contains(ref, ".") {
				return ref
			}
		}
	}
	return ""
}

// Diagnose returns human-readable warnings about cc. An empty result means
// nothing looked wrong. It never fails: an undecodable key is a warning.
func Diagnose(cc config.ConnectionConfig, now time.Time) []string {
	claims, err := Inspect(cc.AnonKey)
	if errors.Is(err, ErrMalformedKey) {
		return []string{"key is not a JWT; role, project and expiry cannot be checked"}
	}
	if err != nil {
		return []string{err.Error()}
	}

	var warnings []string

	switch claims.Role {
	case RoleAnon:
	case RoleServiceRole:
		warnings = append(warnings,
			"key has the service_role role and bypasses row level security; never ship it to clients")
	default:
		warnings = append(warnings, fmt.Sprintf("key has role %q, expected %q", claims.Role, RoleAnon))
	}

	if ref := ProjectRef(cc.URL); ref != "" && claims.Ref != "" && ref != claims.Ref {
		warnings = append(warnings,
			fmt.Sprintf("key was issued for project %q but the URL points at %q", claims.Ref, ref))
	}

	if claims.Expired(now) {
		warnings = append(warnings,
			fmt.Sprintf("key expired at %s", claims.ExpiresAt.UTC().Format(time.RFC3339)))
	}

	return warnings
}
