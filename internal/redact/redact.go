// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or printed. It covers the credentials this application
// handles: Supabase keys (JWTs), database connection strings and passwords.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Rules run in order. JWTs go first so a key=value rule never sees a raw token.
var rules = []rule{
	{
		re:   regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		repl: RedactedJWTPlaceholder,
	},
	{
		re:   regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s/]+@`),
		repl: "${1}://" + RedactedCredentialPlaceholder + "@",
	},
	{
		re:   regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]+['"]?)[^'"&\s]{3,}`),
		repl: "${1}${2}" + RedactedCredentialPlaceholder,
	},
	{
		re:   regexp.MustCompile(`(?i)(apikey|api[_-]key|anon[_-]key|service[_-]role[_-]key|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		repl: "${1}${2}" + RedactedKeyPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.repl)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Key masks a credential for display, keeping just enough of each end to
// tell keys apart. Short values are replaced entirely.
func Key(key string) string {
	if len(key) <= 16 {
		return RedactedKeyPlaceholder
	}
	return key[:6] + "..." + key[len(key)-4:]
}
