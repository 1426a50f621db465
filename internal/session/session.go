// Package session owns the client-side login session: its durable snapshot on
// disk, the expiry timer and the Anonymous/Authenticated state machine.
//
// A Manager is the only writer of the Store. Everything else (the request
// decorator, the route guard, the TUI) reads the Manager's in-memory snapshot.
package session

import (
	"time"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// DefaultValidity is how long a session lives after login.
const DefaultValidity = time.Hour

// Session is an established login.
type Session struct {
	Credential string
	Scheme     string
	Identity   domain.Person
	IssuedAt   time.Time
}

// Account returns the nested account of the identity.
func (s Session) Account() domain.Account {
	if s.Identity.User == nil {
		return domain.Account{}
	}
	return *s.Identity.User
}

// ExpiresAt is IssuedAt plus validity.
func (s Session) ExpiresAt(validity time.Duration) time.Time {
	return s.IssuedAt.Add(validity)
}

// clone copies the nested account so callers cannot mutate manager state.
func (s Session) clone() Session {
	if s.Identity.User != nil {
		u := *s.Identity.User
		if u.Permissions != nil {
			u.Permissions = append(make([]string, 0, len(u.Permissions)), u.Permissions...)
		}
		s.Identity.User = &u
	}
	return s
}

func (s Session) complete() bool {
	return s.Credential != "" && s.Scheme != "" && s.Identity.User != nil && !s.IssuedAt.IsZero()
}

// State is the lifecycle state of a Manager.
type State int

const (
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is what subscribers receive on every transition. Session is nil
// unless State is StateAuthenticated.
type Snapshot struct {
	State   State
	Session *Session
}
