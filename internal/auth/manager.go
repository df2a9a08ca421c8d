package auth

import (
	"context"
	"sync"

	"github.com/Food-Locker/consumer/internal/auth/profile"
	"github.com/Food-Locker/consumer/internal/logger"
)

// Manager reconciles the live external identity with the backend-resident
// guest profile and exposes a single consistent view of the current guest.
//
// The external provider pushes identity changes in via SignIn/SignOut (and
// SetResolving while the provider is still deciding); the manager fetches
// the profile asynchronously and applies the result only if the identity
// that triggered the fetch is still current. Rapid identity flips therefore
// resolve last-writer-by-identity, not last-writer-by-time.
type Manager struct {
	mu sync.Mutex

	profiles profile.Service

	state    State
	identity *Identity
	profile  *profile.Profile
	lastErr  error

	// fetchSeq stamps every profile fetch. A result is applied only when
	// its stamp still matches, which discards superseded fetches without
	// needing transport-level cancellation.
	fetchSeq uint64

	closed bool
}

// NewManager creates a Manager in the Unauthenticated state.
func NewManager(profiles profile.Service) *Manager {
	return &Manager{
		profiles: profiles,
		state:    StateUnauthenticated,
	}
}

// SetResolving reflects the provider's "still resolving" signal. It only
// moves between Unauthenticated and Authenticating; an established
// identity is never disturbed by it.
func (m *Manager) SetResolving(resolving bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.identity != nil {
		return
	}
	if resolving {
		m.state = StateAuthenticating
	} else {
		m.state = StateUnauthenticated
	}
}

// SignIn installs a new external identity and starts an asynchronous
// profile fetch for it. Any profile belonging to a previous identity is
// cleared immediately, before the fetch resolves, so no stale profile is
// ever observable.
func (m *Manager) SignIn(ctx context.Context, identity *Identity) error {
	if identity == nil || identity.ExternalID == "" {
		return ErrNoIdentity
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}

	m.identity = identity
	m.profile = nil
	m.lastErr = nil
	m.state = StateAuthenticatedNoProfile
	m.fetchSeq++
	seq := m.fetchSeq
	externalID := identity.ExternalID
	m.mu.Unlock()

	// The fetch must survive the (request-scoped) caller context.
	go m.fetchProfile(context.WithoutCancel(ctx), externalID, seq)

	return nil
}

// SignOut clears the identity and profile synchronously. Any in-flight
// profile fetch is superseded; its result will be discarded on arrival.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.identity = nil
	m.profile = nil
	m.lastErr = nil
	m.state = StateUnauthenticated
	m.fetchSeq++
}

// fetchProfile loads the profile for externalID and applies it only if the
// fetch is still current.
func (m *Manager) fetchProfile(ctx context.Context, externalID string, seq uint64) {
	p, err := m.profiles.Get(ctx, externalID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || seq != m.fetchSeq {
		return // superseded or disposed; drop the result
	}
	if m.identity == nil || m.identity.ExternalID != externalID {
		return // identity changed while the fetch was in flight
	}

	if err != nil {
		m.profile = nil
		m.lastErr = err
		m.state = StateProfileError
		logger.Warn("profile fetch failed", map[string]any{
			"external_id": externalID,
			"error":       err.Error(),
		})
		return
	}

	m.profile = p
	m.lastErr = nil
	m.state = StateAuthenticatedWithProfile
}

// RefreshProfile forces a synchronous re-fetch for the current identity.
func (m *Manager) RefreshProfile(ctx context.Context) (*profile.Profile, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if m.identity == nil {
		m.mu.Unlock()
		return nil, ErrNoIdentity
	}
	m.fetchSeq++
	seq := m.fetchSeq
	externalID := m.identity.ExternalID
	m.mu.Unlock()

	m.fetchProfile(ctx, externalID, seq)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil || m.identity.ExternalID != externalID {
		return nil, ErrNoIdentity
	}
	if m.lastErr != nil {
		return nil, m.lastErr
	}
	return m.profile, nil
}

// UpdateProfile writes the patch through to the backend and then re-fetches
// the canonical profile. A backend failure is surfaced to the caller and
// does not invalidate the identity.
func (m *Manager) UpdateProfile(ctx context.Context, patch profile.Patch) (*profile.Profile, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if m.identity == nil {
		m.mu.Unlock()
		return nil, ErrNoIdentity
	}
	externalID := m.identity.ExternalID
	m.mu.Unlock()

	if err := m.profiles.Update(ctx, externalID, patch); err != nil {
		m.mu.Lock()
		if !m.closed && m.identity != nil && m.identity.ExternalID == externalID {
			m.lastErr = err
		}
		m.mu.Unlock()
		return nil, err
	}

	return m.RefreshProfile(ctx)
}

// Close marks the manager disposed. Late fetch results and further
// transitions are dropped.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity returns the active external identity, or nil.
func (m *Manager) Identity() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// Profile returns the loaded backend profile, or nil.
func (m *Manager) Profile() *profile.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Err returns the last profile fetch/update error, or nil.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// IsAuthenticated reports whether an external identity is active. Derived
// on every call, never cached.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity != nil
}

// DisplayName returns the profile name, falling back to the provider's
// display name.
func (m *Manager) DisplayName() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profile != nil && m.profile.Name != "" {
		return m.profile.Name
	}
	if m.identity != nil {
		return m.identity.DisplayName
	}
	return ""
}

// ContactEmail returns the profile email, falling back to the provider's
// email claim.
func (m *Manager) ContactEmail() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profile != nil && m.profile.Email != "" {
		return m.profile.Email
	}
	if m.identity != nil {
		return m.identity.Email
	}
	return ""
}
