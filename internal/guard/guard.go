// Package guard decides whether the current identity may open a screen.
//
// Decisions are recomputed from the session snapshot on every navigation and
// every session transition; nothing is cached.
package guard

import (
	"slices"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// Decision is the outcome of a guard evaluation.
type Decision int

const (
	// Pending means the session is still being restored; render a loading state.
	Pending Decision = iota
	Allow
	RedirectLogin
	RedirectNotAuthorized
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectNotAuthorized:
		return "redirect-not-authorized"
	default:
		return "unknown"
	}
}

// Requirement is what a screen declares. Both lists empty means any
// authenticated identity may enter.
type Requirement struct {
	Roles       []string `yaml:"roles,omitempty"`
	Permissions []string `yaml:"permissions,omitempty"`
}

// Decide is the guard itself. The identity check runs before any role or
// permission evaluation. A permission requirement is met by any one match.
func Decide(req Requirement, ready bool, identity *domain.Person) Decision {
	if !ready {
		return Pending
	}
	if identity == nil {
		return RedirectLogin
	}
	if len(req.Roles) == 0 && len(req.Permissions) == 0 {
		return Allow
	}

	var account domain.Account
	if identity.User != nil {
		account = *identity.User
	}
	if len(req.Roles) > 0 && slices.Contains(req.Roles, account.Role) {
		return Allow
	}
	if len(req.Permissions) > 0 && slices.ContainsFunc(account.Permissions, func(p string) bool {
		return slices.Contains(req.Permissions, p)
	}) {
		return Allow
	}
	return RedirectNotAuthorized
}

// IdentitySource is the read side of the session manager.
type IdentitySource interface {
	IsReady() bool
	CurrentIdentity() (domain.Person, bool)
}

// Evaluate runs Decide against the source's current snapshot.
func Evaluate(req Requirement, src IdentitySource) Decision {
	if !src.IsReady() {
		return Pending
	}
	p, ok := src.CurrentIdentity()
	if !ok {
		return Decide(req, true, nil)
	}
	return Decide(req, true, &p)
}
