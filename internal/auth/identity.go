package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions,
// and exists only while the external session is active.
type Identity struct {
	ExternalID  string // provider-scoped unique user identifier (sub)
	DisplayName string // display name asserted by the provider, may be empty
	Email       string // email returned by the provider, may be empty
}
