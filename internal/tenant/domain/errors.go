package domain

import "errors"

var (
	// ErrUnresolved means no gateway API key could be found for the event's
	// tenant identity. A webhook with unknown tenant identity must not guess;
	// this is a configuration problem, not a transient one.
	ErrUnresolved = errors.New("tenant_unresolved")
	ErrNotFound   = errors.New("tenant_not_found")
)
