package supabase

import (
	"net/http"

	"github.com/phrazzld/supaconf/internal/config"
)

// Header names the platform gateway reads.
const (
	HeaderAPIKey        = "apikey"
	HeaderAuthorization = "Authorization"
)

// Headers returns the headers every request to the project carries: the anon
// key as apikey and as a bearer token.
func Headers(cc config.ConnectionConfig) http.Header {
	h := make(http.Header, 2)
	h.Set(HeaderAPIKey, cc.AnonKey)
	h.Set(HeaderAuthorization, "Bearer "+cc.AnonKey)
	return h
}

// NewTransport wraps base so every request carries the project headers.
// A caller-set Authorization header (a signed-in user's token) is kept.
// A nil base means http.DefaultTransport.
func NewTransport(cc config.ConnectionConfig, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &keyTransport{base: base, anonKey: cc.AnonKey}
}

type keyTransport struct {
	base    http.RoundTripper
	anonKey string
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set(HeaderAPIKey, t.anonKey)
	if cloned.Header.Get(HeaderAuthorization) == "" {
		cloned.Header.Set(HeaderAuthorization, "Bearer "+t.anonKey)
	}
	return t.base.RoundTrip(cloned)
}
