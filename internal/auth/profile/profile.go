package profile

import "context"

// Profile holds backend-resident guest attributes, keyed by the external
// identity subject. It is distinct from, and dependent on, the identity:
// it must never outlive the identity it was fetched for.
type Profile struct {
	Name  string
	Email string
	Phone string
}

// Patch carries a partial profile update. Nil fields are left untouched.
type Patch struct {
	Name  *string
	Email *string
	Phone *string
}

// Service defines the backend profile boundary. Implementations return
// transport-level errors as-is; callers decide how to surface them.
type Service interface {
	// Get fetches the profile for the given external subject.
	Get(ctx context.Context, externalID string) (*Profile, error)

	// Update applies a partial update to the stored profile.
	Update(ctx context.Context, externalID string, patch Patch) error
}
