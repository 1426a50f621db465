package client

import "net/http"

// DefaultScheme is used when the backend omits tokenType.
const DefaultScheme = "Bearer"

// CredentialSource exposes the credential of the current session, if any.
// Implementations must return an in-memory snapshot and never block on I/O.
type CredentialSource interface {
	Credential() (scheme, token string, ok bool)
}

// AuthTransport attaches "Authorization: {scheme} {token}" to every outgoing
// request while a credential is available and forwards the request unchanged
// otherwise. Responses, including 401 and 403, pass through untouched.
type AuthTransport struct {
	Base   http.RoundTripper
	Source CredentialSource
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Source == nil {
		return base.RoundTrip(req)
	}
	scheme, token, ok := t.Source.Credential()
	if !ok || token == "" {
		return base.RoundTrip(req)
	}
	if scheme == "" {
		scheme = DefaultScheme
	}
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", scheme+" "+token)
	return base.RoundTrip(r)
}
