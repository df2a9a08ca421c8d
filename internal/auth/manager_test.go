package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Food-Locker/consumer/internal/auth/profile"

	"github.com/stretchr/testify/require"
)

// fakeProfiles is a controllable profile backend. A gate registered for a
// subject blocks its Get until released, which lets tests order fetch
// resolution explicitly.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*profile.Profile
	gates    map[string]chan struct{}
	getErr   error
	updates  []profile.Patch
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles: make(map[string]*profile.Profile),
		gates:    make(map[string]chan struct{}),
	}
}

func (f *fakeProfiles) gate(externalID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[externalID] = ch
	return ch
}

func (f *fakeProfiles) Get(_ context.Context, externalID string) (*profile.Profile, error) {
	f.mu.Lock()
	gate := f.gates[externalID]
	err := f.getErr
	var snapshot *profile.Profile
	if p := f.profiles[externalID]; p != nil {
		cp := *p
		snapshot = &cp
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, profile.ErrNotFound
	}
	return snapshot, nil
}

func (f *fakeProfiles) Update(_ context.Context, externalID string, patch profile.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, patch)
	p := f.profiles[externalID]
	if p == nil {
		return profile.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	return nil
}

func TestManager_SignInLoadsProfile(t *testing.T) {
	backend := newFakeProfiles()
	backend.profiles["guest-1"] = &profile.Profile{Name: "Ada", Email: "ada@example.com"}

	m := NewManager(backend)
	defer m.Close()

	require.Equal(t, StateUnauthenticated, m.State())
	require.False(t, m.IsAuthenticated())

	err := m.SignIn(context.Background(), &Identity{ExternalID: "guest-1", DisplayName: "ada"})
	require.NoError(t, err)
	require.True(t, m.IsAuthenticated())
	require.Equal(t, StateAuthenticatedNoProfile, m.State())

	require.Eventually(t, func() bool {
		return m.State() == StateAuthenticatedWithProfile
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, "Ada", m.Profile().Name)
	require.Equal(t, "Ada", m.DisplayName())
	require.Equal(t, "ada@example.com", m.ContactEmail())
}

func TestManager_SetResolving(t *testing.T) {
	backend := newFakeProfiles()
	backend.profiles["guest-1"] = &profile.Profile{Name: "Ada"}

	m := NewManager(backend)
	defer m.Close()

	// Signed out: the resolving signal toggles Authenticating.
	m.SetResolving(true)
	require.Equal(t, StateAuthenticating, m.State())
	require.False(t, m.IsAuthenticated())

	m.SetResolving(false)
	require.Equal(t, StateUnauthenticated, m.State())

	// Signed in: the signal must never disturb an established identity.
	// The OAuth callback clears its resolving flag after SignIn, so a
	// lost guard here would sign the guest straight back out.
	require.NoError(t, m.SignIn(context.Background(), &Identity{ExternalID: "guest-1"}))
	require.Eventually(t, func() bool {
		return m.State() == StateAuthenticatedWithProfile
	}, time.Second, 5*time.Millisecond)

	m.SetResolving(false)
	require.Equal(t, StateAuthenticatedWithProfile, m.State())
	require.NotNil(t, m.Identity())

	m.SetResolving(true)
	require.Equal(t, StateAuthenticatedWithProfile, m.State())
	require.Equal(t, "Ada", m.Profile().Name)
}

func TestManager_LastIdentityWins(t *testing.T) {
	backend := newFakeProfiles()
	backend.profiles["a"] = &profile.Profile{Name: "Profile A"}
	backend.profiles["b"] = &profile.Profile{Name: "Profile B"}

	// A's fetch is held until after B's has resolved.
	gateA := backend.gate("a")

	m := NewManager(backend)
	defer m.Close()

	require.NoError(t, m.SignIn(context.Background(), &Identity{ExternalID: "a"}))
	require.NoError(t, m.SignIn(context.Background(), &Identity{ExternalID: "b"}))

	require.Eventually(t, func() bool {
		return m.State() == StateAuthenticatedWithProfile
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "Profile B", m.Profile().Name)

	// Now let A's stale fetch land; it must be discarded.
	close(gateA)

	require.Never(t, func() bool {
		p := m.Profile()
		return p == nil || p.Name != "Profile B"
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestManager_SignOutDiscardsInFlightFetch(t *testing.T) {
	backend := newFakeProfiles()
	backend.profiles["guest-1"] = &profile.Profile{Name: "Ada"}
	gate := backend.gate("guest-1")

	m := NewManager(backend)
	defer m.Close()

	require.NoError(t, m.SignIn(context.Background(), &Identity{ExternalID: "guest-1"}))
	m.SignOut()

	require.Nil(t, m.Identity())
	require.Nil(t, m.Profile())
	require.Equal(t, StateUnauthenticated, m.State())

	close(gate)

	require.Never(t, func() bool {
		return m.Profile() != nil || m.State() != StateUnauthenticated
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestManager_ProfileErrorKeepsIdentity(t *testing.T) {
	backend := newFakeProfiles()
	backend.getErr = errors.New("backend down")

	m := NewManager(backend)
	defer m.Close()

	require.NoError(t, m.SignIn(context.Background(), &Identity{
		ExternalID:  "guest-1",
		DisplayName: "ada",
		Email:       "ada@provider.example",
	}))

	require.Eventually(t, func() bool {
		return m.State() == StateProfileError
	}, time.Second, 5*time.Millisecond)

	require.True(t, m.IsAuthenticated())
	require.Nil(t, m.Profile())
	require.EqualError(t, m.Err(), "backend down")

	// Derived fields fall back to the provider claims.
	require.Equal(t, "ada", m.DisplayName())
	require.Equal(t, "ada@provider.example", m.ContactEmail())
}

func TestManager_RefreshProfile(t *testing.T) {
	backend := newFakeProfiles()

	m := NewManager(backend)
	defer m.Close()

	t.Run("requires identity", func(t *testing.T) {
		_, err := m.RefreshProfile(context.Background())
		require.ErrorIs(t, err, ErrNoIdentity)
	})

	t.Run("picks up backend changes", func(t *testing.T) {
		backend.mu.Lock()
		backend.profiles["guest-1"] = &profile.Profile{Name: "Ada"}
		backend.mu.Unlock()

		require.NoError(t, m.SignIn(context.Background(), &Identity{ExternalID: "guest-1"}))
		require.Eventually(t, func() bool {
			return m.State() == StateAuthenticatedWithProfile
		}, time.Second, 5*time.Millisecond)

		backend.mu.Lock()
		backend.profiles["guest-1"].Name = "Ada Lovelace"
		backend.mu.Unlock()

		p, err := m.RefreshProfile(context.Background())
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", p.Name)
		require.Equal(t, "Ada Lovelace", m.DisplayName())
	})
}

func TestManager_UpdateProfile(t *testing.T) {
	backend := newFakeProfiles()
	backend.profiles["guest-1"] = &profile.Profile{Name: "Ada", Phone: "010"}

	m := NewManager(backend)
	defer m.Close()

	t.Run("requires identity", func(t *testing.T) {
		_, err := m.UpdateProfile(context.Background(), profile.Patch{})
		require.ErrorIs(t, err, ErrNoIdentity)
	})

	require.NoError(t, m.SignIn(context.Background(), &Identity{ExternalID: "guest-1"}))
	require.Eventually(t, func() bool {
		return m.State() == StateAuthenticatedWithProfile
	}, time.Second, 5*time.Millisecond)

	t.Run("writes through and refetches", func(t *testing.T) {
		phone := "010-1234"
		p, err := m.UpdateProfile(context.Background(), profile.Patch{Phone: &phone})
		require.NoError(t, err)
		require.Equal(t, "010-1234", p.Phone)
		require.Equal(t, "010-1234", m.Profile().Phone)
		require.Len(t, backend.updates, 1)
	})
}

func TestManager_CloseDropsLateResults(t *testing.T) {
	backend := newFakeProfiles()
	backend.profiles["guest-1"] = &profile.Profile{Name: "Ada"}
	gate := backend.gate("guest-1")

	m := NewManager(backend)
	require.NoError(t, m.SignIn(context.Background(), &Identity{ExternalID: "guest-1"}))

	m.Close()
	close(gate)

	require.Never(t, func() bool {
		return m.Profile() != nil
	}, 100*time.Millisecond, 10*time.Millisecond)

	require.ErrorIs(t, m.SignIn(context.Background(), &Identity{ExternalID: "guest-2"}), ErrManagerClosed)
	_, err := m.RefreshProfile(context.Background())
	require.ErrorIs(t, err, ErrManagerClosed)
}
