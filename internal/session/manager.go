package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

const defaultScheme = "Bearer"

// ErrInvalidResponse is returned by Login when the authenticator hands back
// a response without a credential or an identity with a nested account.
var ErrInvalidResponse = errors.New("session: invalid authentication response")

// Authenticator exchanges a username and password for a credential.
// *client.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.AuthResponse, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithValidity sets the session lifetime. Non-positive values are ignored.
func WithValidity(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.validity = d
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLogger sets the logger used for transitions.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager owns the session lifecycle. It is safe for concurrent use.
type Manager struct {
	store    Store
	validity time.Duration
	clock    Clock
	log      *zap.Logger

	mu      sync.Mutex
	state   State
	current *Session
	timer   Timer
	gen     uint64
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewManager returns a Manager in StateInitializing. Call Restore to leave it.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		validity: DefaultValidity,
		clock:    realClock{},
		log:      zap.NewNop(),
		state:    StateInitializing,
		subs:     make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Validity returns the configured session lifetime.
func (m *Manager) Validity() time.Duration {
	return m.validity
}

// Restore rehydrates the session from the store. An absent, corrupt or
// expired snapshot leaves the manager Anonymous; the latter two are also
// cleared from the store. Only the first call has any effect.
func (m *Manager) Restore() {
	m.mu.Lock()
	if m.state != StateInitializing {
		m.mu.Unlock()
		return
	}

	s, err := m.load()
	switch {
	case err != nil:
		m.state = StateAnonymous
	default:
		elapsed := m.clock.Now().Sub(s.IssuedAt)
		if elapsed >= m.validity {
			m.log.Debug("stored session expired", zap.Duration("elapsed", elapsed))
			m.discard()
			m.state = StateAnonymous
			break
		}
		remaining := m.validity - elapsed
		if remaining > m.validity {
			remaining = m.validity
		}
		m.adopt(s, remaining)
		m.log.Info("session restored",
			zap.String("username", s.Account().Username),
			zap.Duration("remaining", remaining))
	}
	snap, subs := m.snapshotLocked()
	m.mu.Unlock()
	notify(subs, snap)
}

func (m *Manager) load() (Session, error) {
	rec, err := m.store.Load()
	if errors.Is(err, ErrNotFound) {
		return Session{}, err
	}
	if err == nil {
		var s Session
		if s, err = decode(rec); err == nil {
			return s, nil
		}
	}
	m.log.Debug("discarding stored session", zap.Error(err))
	m.discard()
	return Session{}, err
}

func (m *Manager) discard() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn("clear session store", zap.Error(err))
	}
}

// Login exchanges the credentials through auth and, on success, replaces any
// current session. The new session is persisted before it is adopted; if the
// store write fails the error is returned and the state is unchanged.
// When logins overlap, the last one to complete wins.
func (m *Manager) Login(ctx context.Context, auth Authenticator, username, password string) (Session, error) {
	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	if resp == nil || resp.Token == "" || resp.Person == nil || resp.Person.User == nil {
		return Session{}, ErrInvalidResponse
	}
	scheme := resp.TokenType
	if scheme == "" {
		scheme = defaultScheme
	}

	m.mu.Lock()
	s := Session{
		Credential: resp.Token,
		Scheme:     scheme,
		Identity:   *resp.Person,
		IssuedAt:   m.clock.Now(),
	}
	rec, err := encode(s)
	if err == nil {
		err = m.store.Save(rec)
	}
	if err != nil {
		m.mu.Unlock()
		return Session{}, fmt.Errorf("session.Login: persist: %w", err)
	}
	m.adopt(s, m.validity)
	snap, subs := m.snapshotLocked()
	m.mu.Unlock()

	m.log.Info("login",
		zap.String("username", s.Account().Username),
		zap.String("role", s.Account().Role))
	notify(subs, snap)
	return s, nil
}

// adopt installs s as the current session and arms a fresh expiry timer.
// Callers hold m.mu.
func (m *Manager) adopt(s Session, remaining time.Duration) {
	m.stopTimer()
	m.current = &s
	m.state = StateAuthenticated
	gen := m.gen
	m.timer = m.clock.AfterFunc(remaining, func() { m.expire(gen) })
}

// stopTimer cancels the armed timer and invalidates its callback.
func (m *Manager) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != StateAuthenticated {
		m.mu.Unlock()
		return
	}
	m.log.Info("session expired", zap.String("username", m.current.Account().Username))
	err := m.endLocked()
	snap, subs := m.snapshotLocked()
	m.mu.Unlock()
	if err != nil {
		m.log.Warn("clear session store", zap.Error(err))
	}
	notify(subs, snap)
}

// Logout ends the current session. It does nothing unless Authenticated.
// The in-memory session is dropped even if clearing the store fails.
func (m *Manager) Logout() error {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return nil
	}
	m.log.Info("logout", zap.String("username", m.current.Account().Username))
	err := m.endLocked()
	snap, subs := m.snapshotLocked()
	m.mu.Unlock()
	notify(subs, snap)
	if err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	return nil
}

func (m *Manager) endLocked() error {
	m.stopTimer()
	m.current = nil
	m.state = StateAnonymous
	return m.store.Clear()
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsReady reports whether restoration has finished.
func (m *Manager) IsReady() bool {
	return m.State() != StateInitializing
}

// Current returns a copy of the active session.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return m.current.clone(), true
}

// CurrentIdentity returns the authenticated person, if any.
func (m *Manager) CurrentIdentity() (domain.Person, bool) {
	s, ok := m.Current()
	if !ok {
		return domain.Person{}, false
	}
	return s.Identity, true
}

// Credential implements client.CredentialSource.
func (m *Manager) Credential() (scheme, token string, ok bool) {
	s, ok := m.Current()
	if !ok {
		return "", "", false
	}
	return s.Scheme, s.Credential, true
}

// Subscribe registers fn to receive a Snapshot after every transition.
// fn is called without the manager's lock held. The returned func removes it.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Close cancels the expiry timer and drops subscribers. The stored session
// is kept for the next process.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimer()
	m.subs = make(map[int]func(Snapshot))
}

func (m *Manager) snapshotLocked() (Snapshot, []func(Snapshot)) {
	snap := Snapshot{State: m.state}
	if m.current != nil {
		s := m.current.clone()
		snap.Session = &s
	}
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
