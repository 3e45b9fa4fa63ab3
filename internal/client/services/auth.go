// Package services holds the client's use cases: the session, the local
// draft cache of rooms, the walkthrough, the photo pipeline, report
// assembly and property management. Services talk to the backend through
// the narrow interfaces of package client and persist drafts through the
// repositories.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthResult is what the login and register screens show. It never carries
// an error value: failures are reported through Success and Message.
type AuthResult struct {
	Success           bool
	Message           string
	User              *models.User
	NeedsVerification bool
	UserID            models.ID
}

type AuthService interface {
	Login(ctx context.Context, email, password string) AuthResult
	Register(ctx context.Context, name, email, password string) AuthResult
	CheckAuth(ctx context.Context) bool
	Logout(ctx context.Context) error
	User() *models.User
	IsAuthenticated() bool
	// Refresh reloads the profile of the signed-in user. Without a session,
	// or when the backend cannot be reached, the cached user is returned. A
	// token the backend rejects ends the session without a redirect and
	// Refresh returns nil.
	Refresh(ctx context.Context) *models.User

	// HandleUnauthorized is installed on the gateway and runs whenever the
	// backend rejects the session token.
	HandleUnauthorized(ctx context.Context, redirect bool)

	MarkVerified(ctx context.Context) error
	ConsumeNewlyVerified(ctx context.Context) (bool, error)
	SetTheme(ctx context.Context, theme string) error
	Theme(ctx context.Context) string
	Ping(ctx context.Context) error
}

// tokenClaims is the payload of the backend's bearer token.
type tokenClaims struct {
	User models.User `json:"user"`
	jwt.RegisteredClaims
}

type authService struct {
	api    client.AuthAPI
	creds  *client.Credentials
	meta   metadata.Repository
	nav    Navigator
	logger logging.Logger
	now    func() time.Time

	mu   sync.RWMutex
	user *models.User
}

type AuthOption func(*authService)

// WithAuthClock replaces time.Now for token expiry checks.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *authService) { s.now = now }
}

func NewAuthService(api client.AuthAPI, creds *client.Credentials, meta metadata.Repository,
	nav Navigator, logger logging.Logger, opts ...AuthOption) AuthService {
	s := &authService{
		api:    api,
		creds:  creds,
		meta:   meta,
		nav:    nav,
		logger: logger.With("service", "auth"),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *authService) Login(ctx context.Context, email, password string) AuthResult {
	if email == "" || password == "" {
		return AuthResult{Message: "email and password are required"}
	}
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "email", email, "error", err)
		return AuthResult{Message: client.Message(err)}
	}
	return s.establish(ctx, resp)
}

func (s *authService) Register(ctx context.Context, name, email, password string) AuthResult {
	if name == "" || email == "" || password == "" {
		return AuthResult{Message: "name, email and password are required"}
	}
	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "email", email, "error", err)
		return AuthResult{Message: client.Message(err)}
	}
	if resp.NeedsVerification {
		msg := resp.Message
		if msg == "" {
			msg = "check your inbox to verify your email"
		}
		return AuthResult{Success: true, Message: msg, NeedsVerification: true, UserID: resp.UserID}
	}
	return s.establish(ctx, resp)
}

// establish decodes and persists the token of a successful login.
func (s *authService) establish(ctx context.Context, resp *client.AuthResponse) AuthResult {
	if resp == nil || resp.Token == "" {
		return AuthResult{Message: "the server did not return a session token"}
	}
	claims, err := decodeToken(resp.Token)
	if err != nil {
		s.logger.Warn(ctx, "cannot decode session token", "error", err)
		return AuthResult{Message: "the server returned an invalid session token"}
	}
	user := claims.User
	if user.ID == "" && resp.User != nil {
		user = *resp.User
	}
	if err := s.meta.Set(ctx, common.KeyToken, []byte(resp.Token)); err != nil {
		s.logger.Error(ctx, "cannot persist session token", "error", err)
		return AuthResult{Message: "could not save the session locally"}
	}
	s.creds.Set(resp.Token)
	s.setUser(&user)
	s.logger.Info(ctx, "signed in", "user", user.Email)
	return AuthResult{Success: true, Message: resp.Message, User: &user}
}

// CheckAuth restores the session from the persisted token. An expired or
// unreadable token logs the user out.
func (s *authService) CheckAuth(ctx context.Context) bool {
	raw, err := s.meta.Get(ctx, common.KeyToken)
	if err != nil {
		s.logger.Warn(ctx, "cannot read session token", "error", err)
	}
	if len(raw) == 0 {
		s.forget()
		return false
	}
	token := string(raw)
	claims, err := decodeToken(token)
	if err == nil && claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(s.now()) {
		err = common.ErrTokenExpired
	}
	if err != nil {
		s.logger.Info(ctx, "session not restored", "reason", err)
		if lerr := s.Logout(ctx); lerr != nil {
			s.logger.Warn(ctx, "logout failed", "error", lerr)
		}
		return false
	}
	s.creds.Set(token)
	user := claims.User
	s.setUser(&user)
	return true
}

func (s *authService) Logout(ctx context.Context) error {
	s.forget()
	err := s.meta.Delete(ctx, common.KeyToken)
	navigate(ctx, s.nav, PathLogin)
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *authService) HandleUnauthorized(ctx context.Context, redirect bool) {
	s.forget()
	if err := s.meta.Delete(ctx, common.KeyToken); err != nil {
		s.logger.Warn(ctx, "cannot clear session token", "error", err)
	}
	if redirect {
		navigate(ctx, s.nav, PathLogin)
	}
}

func (s *authService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *authService) Refresh(ctx context.Context) *models.User {
	if s.creds.Token() == "" {
		return s.User()
	}
	res := s.api.Viewer(ctx)
	if res.Fallback || res.Data == nil {
		if res.Err != nil {
			s.logger.Debug(ctx, "profile not refreshed", "error", res.Err)
		}
		return s.User()
	}
	s.setUser(res.Data)
	return s.User()
}

func (s *authService) IsAuthenticated() bool {
	return s.User() != nil && s.creds.Token() != ""
}

func (s *authService) MarkVerified(ctx context.Context) error {
	return s.meta.Set(ctx, common.KeyNewlyVerified, []byte("true"))
}

// ConsumeNewlyVerified reports whether MarkVerified ran since the last call.
func (s *authService) ConsumeNewlyVerified(ctx context.Context) (bool, error) {
	raw, err := s.meta.Get(ctx, common.KeyNewlyVerified)
	if err != nil || raw == nil {
		return false, err
	}
	if err := s.meta.Delete(ctx, common.KeyNewlyVerified); err != nil {
		return false, err
	}
	return string(raw) == "true", nil
}

func (s *authService) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("%w: unknown theme %q", common.ErrValidation, theme)
	}
	return s.meta.Set(ctx, common.KeyTheme, []byte(theme))
}

// Theme returns the stored preference, "light" when none is stored.
func (s *authService) Theme(ctx context.Context) string {
	raw, err := s.meta.Get(ctx, common.KeyTheme)
	if err != nil || len(raw) == 0 {
		return "light"
	}
	return string(raw)
}

func (s *authService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

func (s *authService) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *authService) forget() {
	s.creds.Clear()
	s.setUser(nil)
}

// decodeToken reads the claims without verifying the signature; the key
// stays on the server, which verifies every request anyway.
func decodeToken(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}
