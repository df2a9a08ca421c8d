package auth

// State represents the identity session lifecycle.
//
// Normal progression on sign-in:
//
//	StateUnauthenticated → StateAuthenticating → StateAuthenticatedNoProfile → StateAuthenticatedWithProfile
//
// A failed profile fetch moves to StateProfileError without invalidating
// the identity. Sign-out returns to StateUnauthenticated from any state.
type State int

const (
	// StateUnauthenticated means no external identity is active.
	StateUnauthenticated State = iota

	// StateAuthenticating means the external provider is still resolving.
	StateAuthenticating

	// StateAuthenticatedNoProfile means an identity is active and the
	// backend profile fetch has not completed yet.
	StateAuthenticatedNoProfile

	// StateAuthenticatedWithProfile means the backend profile for the
	// active identity has been loaded.
	StateAuthenticatedWithProfile

	// StateProfileError means the profile fetch failed; the identity
	// remains valid.
	StateProfileError
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "Unauthenticated"
	case StateAuthenticating:
		return "Authenticating"
	case StateAuthenticatedNoProfile:
		return "AuthenticatedNoProfile"
	case StateAuthenticatedWithProfile:
		return "AuthenticatedWithProfile"
	case StateProfileError:
		return "ProfileError"
	default:
		return "Unknown"
	}
}
