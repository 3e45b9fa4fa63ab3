// Package client is the HTTP gateway to the depositkeeper REST backend.
//
// # Overview
//
// HTTPClient is the single point of outbound communication. Every call goes
// through Request with one of four modes:
//
//   - ModeAuthenticated: errors propagate as sentinel errors. A 401 clears
//     the credentials and asks the UnauthorizedHandler to redirect to login.
//   - ModePublic: anonymous reads of shared resources. The call is bounded
//     by the public timeout and a 401 clears credentials without redirect.
//   - ModeOptionalAuth: the token is sent when present; a 401 means
//     "continue as anonymous".
//   - ModeCredentials: login and register. Not time-bounded, and a 401
//     leaves the stored token alone.
//
// Reads in public and optional-auth modes go through FetchPublic and
// FetchOptional, which never fail: on any error they return a Result whose
// Data is a caller-supplied placeholder and whose Fallback flag is set, so
// callers can still tell real data from a stand-in.
//
// # Credentials
//
// The bearer token lives in a Credentials value created once at startup and
// shared by reference between the gateway and the session. There is no
// package-level state, so tests can run independent sessions side by side.
//
// # Error Handling
//
// Responses are mapped to ErrUnauthorized (401, 403), ErrNotFound (404),
// ErrUnavailable (transport failure, 502, 503, 504, deadline) or *APIError
// for any other status >= 400. Match them with errors.Is / errors.As.
package client
