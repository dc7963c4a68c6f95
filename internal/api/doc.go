// Package api serves the public client configuration over HTTP. Browser
// clients fetch it as JSON or as a ready-to-include JavaScript file instead
// of carrying a hand-edited copy.
package api
