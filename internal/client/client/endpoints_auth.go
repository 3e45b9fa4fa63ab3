package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.Request(ctx, ModeCredentials, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var resp AuthResponse
	if err := c.Request(ctx, ModeCredentials, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.Request(ctx, ModeAuthenticated, http.MethodGet, "/api/auth/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Viewer returns the signed-in user, or a nil placeholder for an anonymous
// viewer.
func (c *HTTPClient) Viewer(ctx context.Context) Result[*models.User] {
	return FetchOptional[*models.User](ctx, c, "/api/auth/user", nil)
}
