package client

import (
	"net/http"
	"sync"

	"github.com/dmitrijs2005/depositkeeper/internal/common"
)

// Credentials holds the bearer token attached to outbound requests. It is
// safe for concurrent use. The zero value carries no token.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Credentials) Clear() {
	c.Set("")
}

// Apply sets the Authorization header when a token is present.
func (c *Credentials) Apply(req *http.Request) {
	if c == nil {
		return
	}
	if t := c.Token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+t)
	}
}
