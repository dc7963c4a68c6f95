package anonkey

import "errors"

var (
	// ErrMalformedKey indicates the key is not a decodable JWT
	ErrMalformedKey = errors.New("anon key is not a well-formed JWT")

	// ErrMissingKey indicates an empty key was supplied
	ErrMissingKey = errors.New("anon key is empty")
)
