package core

import "fmt"

var (
	// ErrSessionNotFound is returned when a session for the given id does
	// not exist in the underlying store.
	ErrSessionNotFound = fmt.Errorf("session not found")
)
