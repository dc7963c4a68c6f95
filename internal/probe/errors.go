package probe

import "errors"

// Probe errors
var (
	// ErrUnhealthy indicates the service answered with a server error
	ErrUnhealthy = errors.New("service reported unhealthy")

	// ErrRejected indicates the service refused the request, usually a bad key
	ErrRejected = errors.New("service rejected the request")

	// ErrSkipped indicates the check has nothing to probe
	ErrSkipped = errors.New("check skipped")
)
