package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// memStore is an in-memory Store that counts writes.
type memStore struct {
	mu      sync.Mutex
	rec     *Record
	saves   int
	clears  int
	saveErr error
}

func (s *memStore) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return Record{}, ErrNotFound
	}
	if !s.rec.complete() {
		return Record{}, ErrCorrupt
	}
	return *s.rec, nil
}

func (s *memStore) Save(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.rec = &r
	return nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.rec = nil
	return nil
}

func (s *memStore) stored() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

// authFunc adapts a function to Authenticator.
type authFunc func(ctx context.Context, username, password string) (*domain.AuthResponse, error)

func (f authFunc) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	return f(ctx, username, password)
}

func okAuth(username string, perms ...string) Authenticator {
	return authFunc(func(context.Context, string, string) (*domain.AuthResponse, error) {
		return &domain.AuthResponse{
			Token:     "token-" + username,
			TokenType: "Bearer",
			Person: &domain.Person{
				ID:        1,
				FirstName: username,
				User: &domain.Account{
					Username:    username,
					Role:        domain.RoleAdministrator,
					Permissions: perms,
				},
			},
		}, nil
	})
}

func newTestManager(t *testing.T) (*Manager, *memStore, *fakeClock) {
	t.Helper()
	store := &memStore{}
	clock := newFakeClock()
	m := NewManager(store, WithClock(clock), WithValidity(time.Hour))
	t.Cleanup(m.Close)
	return m, store, clock
}

func TestManagerStartsInitializing(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.Equal(t, StateInitializing, m.State())
	assert.False(t, m.IsReady())

	m.Restore()
	assert.Equal(t, StateAnonymous, m.State())
	assert.True(t, m.IsReady())
	_, ok := m.CurrentIdentity()
	assert.False(t, ok)
}

func TestManagerLoginAdoptsIdentity(t *testing.T) {
	m, store, clock := newTestManager(t)
	m.Restore()

	s, err := m.Login(context.Background(), okAuth("ada", "GET_PRODUCTS", "GET_USERS"), "ada", "secret123")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, clock.Now(), s.IssuedAt)

	p, ok := m.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdministrator, p.User.Role)
	assert.Equal(t, []string{"GET_PRODUCTS", "GET_USERS"}, p.User.Permissions)

	scheme, token, ok := m.Credential()
	require.True(t, ok)
	assert.Equal(t, "Bearer", scheme)
	assert.Equal(t, "token-ada", token)

	rec := store.stored()
	require.NotNil(t, rec)
	assert.Equal(t, "token-ada", rec.Token)
	assert.Equal(t, 1, clock.Armed())
}

func TestManagerLoginDefaultsScheme(t *testing.T) {
	m, _, _ := newTestManager(t)
	auth := authFunc(func(context.Context, string, string) (*domain.AuthResponse, error) {
		return &domain.AuthResponse{
			Token:  "t",
			Person: &domain.Person{User: &domain.Account{Username: "u"}},
		}, nil
	})
	s, err := m.Login(context.Background(), auth, "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", s.Scheme)
}

func TestManagerLoginFailureLeavesAnonymous(t *testing.T) {
	cases := map[string]Authenticator{
		"authenticator error": authFunc(func(context.Context, string, string) (*domain.AuthResponse, error) {
			return nil, errors.New("invalid server response")
		}),
		"missing person": authFunc(func(context.Context, string, string) (*domain.AuthResponse, error) {
			return &domain.AuthResponse{Token: "t"}, nil
		}),
		"missing account": authFunc(func(context.Context, string, string) (*domain.AuthResponse, error) {
			return &domain.AuthResponse{Token: "t", Person: &domain.Person{ID: 1}}, nil
		}),
	}
	for name, auth := range cases {
		t.Run(name, func(t *testing.T) {
			m, store, clock := newTestManager(t)
			m.Restore()

			_, err := m.Login(context.Background(), auth, "u", "p")
			require.Error(t, err)
			assert.Equal(t, StateAnonymous, m.State())
			assert.Nil(t, store.stored())
			assert.Zero(t, store.saves)
			assert.Zero(t, clock.Armed())
		})
	}
}

func TestManagerLoginStoreFailure(t *testing.T) {
	m, store, clock := newTestManager(t)
	m.Restore()
	store.saveErr = errors.New("disk full")

	_, err := m.Login(context.Background(), okAuth("ada"), "ada", "pw")
	require.Error(t, err)
	assert.Equal(t, StateAnonymous, m.State())
	assert.Zero(t, clock.Armed())
}

func TestManagerLogoutIdempotent(t *testing.T) {
	m, store, clock := newTestManager(t)
	m.Restore()

	// Not authenticated: nothing is written.
	require.NoError(t, m.Logout())
	assert.Zero(t, store.clears)

	_, err := m.Login(context.Background(), okAuth("ada"), "ada", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Logout())
	require.NoError(t, m.Logout())
	assert.Equal(t, 1, store.clears)
	assert.Nil(t, store.stored())
	assert.Equal(t, StateAnonymous, m.State())
	assert.Zero(t, clock.Armed())

	_, _, ok := m.Credential()
	assert.False(t, ok)
}

func TestManagerExpiryBoundary(t *testing.T) {
	m, store, clock := newTestManager(t)
	m.Restore()

	_, err := m.Login(context.Background(), okAuth("ada"), "ada", "pw")
	require.NoError(t, err)

	clock.Advance(time.Hour - time.Millisecond)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.NotNil(t, store.stored())

	clock.Advance(time.Millisecond)
	assert.Equal(t, StateAnonymous, m.State())
	assert.Nil(t, store.stored())
	_, ok := m.CurrentIdentity()
	assert.False(t, ok)
}

func TestManagerRestore(t *testing.T) {
	tests := []struct {
		name      string
		age       time.Duration
		wantState State
		wantKept  bool
	}{
		{"fresh", 0, StateAuthenticated, true},
		{"one ms before expiry", time.Hour - time.Millisecond, StateAuthenticated, true},
		{"exactly at expiry", time.Hour, StateAnonymous, false},
		{"long expired", 48 * time.Hour, StateAnonymous, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store, clock := newTestManager(t)
			rec, err := encode(testSession(clock.Now().Add(-tt.age)))
			require.NoError(t, err)
			store.rec = &rec

			m.Restore()
			assert.Equal(t, tt.wantState, m.State())
			assert.Equal(t, tt.wantKept, store.stored() != nil)
		})
	}
}

func TestManagerRestoreArmsRemaining(t *testing.T) {
	m, store, clock := newTestManager(t)
	rec, err := encode(testSession(clock.Now().Add(-40 * time.Minute)))
	require.NoError(t, err)
	store.rec = &rec

	m.Restore()
	require.Equal(t, StateAuthenticated, m.State())

	clock.Advance(20*time.Minute - time.Millisecond)
	assert.Equal(t, StateAuthenticated, m.State())
	clock.Advance(time.Millisecond)
	assert.Equal(t, StateAnonymous, m.State())
}

func TestManagerRestoreDiscardsCorrupt(t *testing.T) {
	m, store, _ := newTestManager(t)
	store.rec = &Record{Token: "t", TokenType: "Bearer", Person: "{", User: "{}", TokenTimestamp: "1"}

	m.Restore()
	assert.Equal(t, StateAnonymous, m.State())
	assert.Nil(t, store.stored())
	assert.Equal(t, 1, store.clears)
}

func TestManagerRestoreOnlyOnce(t *testing.T) {
	m, store, clock := newTestManager(t)
	m.Restore()

	rec, err := encode(testSession(clock.Now()))
	require.NoError(t, err)
	store.rec = &rec
	m.Restore()
	assert.Equal(t, StateAnonymous, m.State())
}

func TestManagerPersistRehydrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	clock := newFakeClock()

	first := NewManager(NewFileStore(path), WithClock(clock))
	first.Restore()
	want, err := first.Login(context.Background(), okAuth("ada", "GET_SALES"), "ada", "pw")
	require.NoError(t, err)
	first.Close()

	clock.Advance(10 * time.Minute)
	second := NewManager(NewFileStore(path), WithClock(clock))
	defer second.Close()
	second.Restore()

	got, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, want.Credential, got.Credential)
	assert.Equal(t, want.Scheme, got.Scheme)
	assert.Equal(t, want.Identity, got.Identity)
	assert.Equal(t, want.IssuedAt.UnixMilli(), got.IssuedAt.UnixMilli())
}

func TestManagerLoginRaceLastWins(t *testing.T) {
	m, store, clock := newTestManager(t)
	m.Restore()

	gate := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	entered := make(chan struct{}, 2)
	auth := authFunc(func(_ context.Context, username, _ string) (*domain.AuthResponse, error) {
		entered <- struct{}{}
		<-gate[username]
		return okAuth(username).Login(context.Background(), username, "")
	})

	done := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	for _, name := range []string{"first", "second"} {
		go func() {
			defer close(done[name])
			_, err := m.Login(context.Background(), auth, name, "pw")
			assert.NoError(t, err)
		}()
	}
	<-entered
	<-entered

	// The login started second resolves first; the other one resolves last.
	close(gate["second"])
	<-done["second"]
	close(gate["first"])
	<-done["first"]

	p, ok := m.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, "first", p.User.Username)
	assert.Equal(t, "token-first", store.stored().Token)
	assert.Equal(t, 1, clock.Armed())
	assert.Equal(t, 2, store.saves)
}

func TestManagerStaleTimerIgnored(t *testing.T) {
	m, _, clock := newTestManager(t)
	m.Restore()

	_, err := m.Login(context.Background(), okAuth("ada"), "ada", "pw")
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)

	// Re-login restarts the full validity window.
	_, err = m.Login(context.Background(), okAuth("ada"), "ada", "pw")
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	assert.Equal(t, StateAuthenticated, m.State())
	clock.Advance(30 * time.Minute)
	assert.Equal(t, StateAnonymous, m.State())
}

func TestManagerSubscribe(t *testing.T) {
	m, _, clock := newTestManager(t)

	var mu sync.Mutex
	var got []State
	unsubscribe := m.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s.State)
		if s.State == StateAuthenticated {
			assert.NotNil(t, s.Session)
		} else {
			assert.Nil(t, s.Session)
		}
	})

	m.Restore()
	_, err := m.Login(context.Background(), okAuth("ada"), "ada", "pw")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	unsubscribe()
	_, err = m.Login(context.Background(), okAuth("ada"), "ada", "pw")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateAnonymous, StateAuthenticated, StateAnonymous}, got)
}

func TestManagerCurrentIsCopy(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Login(context.Background(), okAuth("ada", "GET_PRODUCTS"), "ada", "pw")
	require.NoError(t, err)

	p, _ := m.CurrentIdentity()
	p.User.Permissions[0] = "DELETE_EVERYTHING"
	p.User.Role = "nobody"

	again, _ := m.CurrentIdentity()
	assert.Equal(t, []string{"GET_PRODUCTS"}, again.User.Permissions)
	assert.Equal(t, domain.RoleAdministrator, again.User.Role)
}
