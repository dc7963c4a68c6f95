// Package supabase derives what a client library needs from a
// config.ConnectionConfig: per-service endpoint URLs and the request headers
// that carry the anon key. It performs no network I/O.
package supabase

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/phrazzld/supaconf/internal/config"
)

// Service path prefixes under the project URL.
const (
	RESTPath      = "/rest/v1"
	AuthPath      = "/auth/v1"
	StoragePath   = "/storage/v1"
	FunctionsPath = "/functions/v1"
	RealtimePath  = "/realtime/v1"
)

// ErrInvalidURL indicates the project URL is not an absolute http(s) URL
var ErrInvalidURL = errors.New("project URL must be an absolute http or https URL")

// Endpoints are the service base URLs of one project.
type Endpoints struct {
	REST      string `json:"rest"`
	Auth      string `json:"auth"`
	Storage   string `json:"storage"`
	Functions string `json:"functions"`
	Realtime  string `json:"realtime"`
}

// EndpointsFor derives the service URLs from cc.URL. A trailing slash on the
// project URL is ignored. Realtime uses ws or wss to match http or https.
func EndpointsFor(cc config.ConnectionConfig) (Endpoints, error) {
	u, err := url.Parse(cc.URL)
	if err != nil {
		return Endpoints{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Endpoints{}, ErrInvalidURL
	}

	base := strings.TrimRight(u.Scheme+"://"+u.Host+u.EscapedPath(), "/")

	wsScheme := "wss"
	if u.Scheme == "http" {
		wsScheme = "ws"
	}
	ws := strings.TrimRight(wsScheme+"://"+u.Host+u.EscapedPath(), "/")

	return Endpoints{
		REST:      base + RESTPath,
		Auth:      base + AuthPath,
		Storage:   base + StoragePath,
		Functions: base + FunctionsPath,
		Realtime:  ws + RealtimePath,
	}, nil
}
