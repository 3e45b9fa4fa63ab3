package client

// Mode selects how a request treats authentication and failures.
type Mode int

const (
	ModeAuthenticated Mode = iota
	ModePublic
	ModeOptionalAuth
	// ModeCredentials is for login and register: errors propagate, there is
	// no timeout bound, and a 401 means bad credentials, not a dead session.
	ModeCredentials
)

func (m Mode) String() string {
	switch m {
	case ModePublic:
		return "public"
	case ModeOptionalAuth:
		return "optional_auth"
	case ModeCredentials:
		return "credentials"
	default:
		return "authenticated"
	}
}

// redirectOnUnauthorized reports whether a 401 in this mode should send the
// user to the login entry point.
func (m Mode) redirectOnUnauthorized() bool {
	return m == ModeAuthenticated
}

// endsSession reports whether a 401 in this mode invalidates the stored
// token.
func (m Mode) endsSession() bool {
	return m != ModeCredentials
}
