package auth

import "errors"

// Sentinel errors returned by the Manager.
var (
	// ErrNoIdentity is returned when a profile operation is attempted
	// without an active external identity.
	ErrNoIdentity = errors.New("no active identity")

	// ErrManagerClosed is returned when an operation is attempted on a
	// disposed manager.
	ErrManagerClosed = errors.New("identity manager closed")
)
