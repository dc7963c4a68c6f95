package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/phrazzld/supaconf/internal/api/shared"
	"github.com/phrazzld/supaconf/internal/config"
	"github.com/phrazzld/supaconf/internal/platform/logger"
)

// ClientConfig is the object handed to the JavaScript client library:
// createClient(url, anonKey, options).
type ClientConfig struct {
	URL     string        `json:"url"`
	AnonKey string        `json:"anonKey"`
	Options ClientOptions `json:"options"`
}

// ClientOptions nests the session flags under "auth", where the client
// library expects them.
type ClientOptions struct {
	Auth config.ClientOptions `json:"auth"`
}

// NewClientConfig converts the connection parameters to the client shape.
func NewClientConfig(cc config.ConnectionConfig) ClientConfig {
	return ClientConfig{
		URL:     cc.URL,
		AnonKey: cc.AnonKey,
		Options: ClientOptions{Auth: cc.Options},
	}
}

// ConfigHandler serves one immutable ClientConfig. The JavaScript rendition
// is built once at construction.
type ConfigHandler struct {
	client ClientConfig
	script []byte
}

// NewConfigHandler creates a handler for cc.
func NewConfigHandler(cc config.ConnectionConfig) (*ConfigHandler, error) {
	client := NewClientConfig(cc)

	script, err := renderScript(client)
	if err != nil {
		return nil, fmt.Errorf("failed to render config script: %w", err)
	}

	return &ConfigHandler{
		client: client,
		script: script,
	}, nil
}

// GetJSON handles GET /config.json.
func (h *ConfigHandler) GetJSON(w http.ResponseWriter, r *http.Request) {
	configRequests.WithLabelValues("json").Inc()
	w.Header().Set("Cache-Control", "no-cache")
	shared.RespondWithJSON(w, r, http.StatusOK, h.client)
}

// GetScript handles GET /config.js.
func (h *ConfigHandler) GetScript(w http.ResponseWriter, r *http.Request) {
	configRequests.WithLabelValues("js").Inc()
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.script); err != nil {
		logger.FromContext(r.Context()).Error("failed to write config script", "error", err)
	}
}

// renderScript produces a script that defines SUPABASE_CONFIG, exposes it on
// window in browsers and exports it when a CommonJS module system exists.
// encoding/json escapes <, > and &, so the literal is safe inside a script tag.
func renderScript(client ClientConfig) ([]byte, error) {
	literal, err := json.MarshalIndent(client, "", "    ")
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("// Generated by supaconf. Do not edit.\n")
	b.WriteString("var SUPABASE_CONFIG = ")
	b.Write(literal)
	b.WriteString(";\n\n")
	b.WriteString("if (typeof window !== 'undefined') {\n")
	b.WriteString("    window.SUPABASE_CONFIG = SUPABASE_CONFIG;\n")
	b.WriteString("}\n\n")
	b.WriteString("if (typeof module !== 'undefined' && module.exports) {\n")
	b.WriteString("    module.exports = SUPABASE_CONFIG;\n")
	b.WriteString("}\n")
	return b.Bytes(), nil
}
