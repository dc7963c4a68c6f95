package anonkey_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/supaconf/internal/anonkey"
	"github.com/phrazzld/supaconf/internal/config"
	"github.com/phrazzld/supaconf/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestInspectDefaultKey(t *testing.T) {
	claims, err := anonkey.Inspect(config.DefaultAnonKey)

	require.NoError(t, err)
	assert.Equal(t, "supabase", claims.Issuer)
	assert.Equal(t, "yoxyezmyygkhwwaopmiy", claims.Ref)
	assert.Equal(t, anonkey.RoleAnon, claims.Role)
	assert.Equal(t, int64(1772043002), claims.IssuedAt.Unix())
	assert.Equal(t, int64(2087619002), claims.ExpiresAt.Unix())
	assert.False(t, claims.Expired(now))
}

func TestInspectErrors(t *testing.T) {
	_, err := anonkey.Inspect("")
	assert.ErrorIs(t, err, anonkey.ErrMissingKey)

	_, err = anonkey.Inspect("not-a-jwt")
	assert.ErrorIs(t, err, anonkey.ErrMalformedKey)

	_, err = anonkey.Inspect("eyJhbGciOiJIUzI1NiJ9.!!!.sig")
	assert.ErrorIs(t, err, anonkey.ErrMalformedKey)
}

func TestInspectIgnoresSignature(t *testing.T) {
	key := testutils.SignKey(t, jwt.MapClaims{"role": "anon", "ref": "abc"})
	tampered := key[:len(key)-4] + "AAAA"

	claims, err := anonkey.Inspect(tampered)

	require.NoError(t, err)
	assert.Equal(t, "abc", claims.Ref)
}

func TestProjectRef(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: config.DefaultURL, want: "yoxyezmyygkhwwaopmiy"},
		{url: "https://abc123.supabase.co/", want: "abc123"},
		{url: "https://abc123.supabase.in", want: "abc123"},
		{url: "https://YOXYEZMYYGKHWWAOPMIY.supabase.co", want: "yoxyezmyygkhwwaopmiy"},
		{url: "http://localhost:54321", want: ""},
		{url: "https://api.example.com", want: ""},
		{url: "https://a.b.supabase.co", want: ""},
		{url: "::::", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, anonkey.ProjectRef(tt.url))
		})
	}
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		claims   jwt.MapClaims
		contains []string
	}{
		{
			name:   "healthy key",
			url:    "https://abc.supabase.co",
			claims: jwt.MapClaims{"role": "anon", "ref": "abc", "exp": now.Add(time.Hour).Unix()},
		},
		{
			name:     "service role key",
			url:      "https://abc.supabase.co",
			claims:   jwt.MapClaims{"role": "service_role", "ref": "abc"},
			contains: []string{"service_role"},
		},
		{
			name:     "unknown role",
			url:      "https://abc.supabase.co",
			claims:   jwt.MapClaims{"role": "authenticated", "ref": "abc"},
			contains: []string{`role "authenticated"`},
		},
		{
			name:     "ref mismatch",
			url:      "https://xyz.supabase.co",
			claims:   jwt.MapClaims{"role": "anon", "ref": "abc"},
			contains: []string{`issued for project "abc" but the URL points at "xyz"`},
		},
		{
			name:     "expired",
			url:      "http://localhost:54321",
			claims:   jwt.MapClaims{"role": "anon", "exp": now.Add(-time.Hour).Unix()},
			contains: []string{"expired at 2026-10-19T11:00:00Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := config.ConnectionConfig{URL: tt.url, AnonKey: testutils.SignKey(t, tt.claims)}

			warnings := anonkey.Diagnose(cc, now)

			require.Len(t, warnings, len(tt.contains))
			for i, want := range tt.contains {
				assert.Contains(t, warnings[i], want)
			}
		})
	}
}

func TestDiagnoseDefault(t *testing.T) {
	assert.Empty(t, anonkey.Diagnose(config.Default(), now))
}

func TestDiagnoseOpaqueKey(t *testing.T) {
	cc := config.ConnectionConfig{URL: config.DefaultURL, AnonKey: "sb_publishable_abcdefghijklmnop1234"}

	warnings := anonkey.Diagnose(cc, now)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "key is not a JWT")
}

func TestDiagnoseEmptyKey(t *testing.T) {
	warnings := anonkey.Diagnose(config.ConnectionConfig{URL: config.DefaultURL}, now)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "empty")
}
