package aemo

import "errors"

var (
	// ErrAuth means the upstream rejected the session or credentials.
	ErrAuth = errors.New("aemo auth rejected")

	// ErrClient covers every other transport, status or payload failure.
	ErrClient = errors.New("aemo client error")
)
