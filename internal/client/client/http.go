package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
)

// UnauthorizedHandler is told about every 401 after the credentials have
// been cleared. redirect is false for public and optional-auth requests,
// where the viewer must stay on the shared page.
type UnauthorizedHandler func(ctx context.Context, redirect bool)

type HTTPClient struct {
	baseURL       string
	http          *http.Client
	creds         *Credentials
	publicTimeout time.Duration
	metrics       *metrics.GatewayMetrics
	logger        logging.Logger

	mu             sync.RWMutex
	onUnauthorized UnauthorizedHandler
}

type Option func(*HTTPClient)

func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithPublicTimeout bounds ModePublic requests; zero disables the bound.
func WithPublicTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.publicTimeout = d }
}

func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

const defaultPublicTimeout = 5 * time.Second

// NewHTTPClient returns a gateway for baseURL that authenticates with creds.
func NewHTTPClient(baseURL string, creds *Credentials, opts ...Option) *HTTPClient {
	if creds == nil {
		creds = &Credentials{}
	}
	c := &HTTPClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{},
		creds:         creds,
		publicTimeout: defaultPublicTimeout,
		logger:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Credentials() *Credentials {
	return c.creds
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = h
}

// Request sends a JSON request and decodes a JSON answer into out (which
// may be nil). body, when non-nil, is encoded as JSON.
func (c *HTTPClient) Request(ctx context.Context, mode Mode, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}
	return c.roundTrip(ctx, mode, method, path, payload, "application/json", out)
}

// FilePart is the file of a multipart upload.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Body        io.Reader
}

// RequestMultipart posts form fields plus one file as multipart/form-data.
func (c *HTTPClient) RequestMultipart(ctx context.Context, mode Mode, method, path string, fields map[string]string, file FilePart, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.FileName))
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("copy file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	return c.roundTrip(ctx, mode, method, path, &buf, w.FormDataContentType(), out)
}

func (c *HTTPClient) roundTrip(ctx context.Context, mode Mode, method, path string, body io.Reader, contentType string, out any) error {
	if mode == ModePublic && c.publicTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.publicTimeout)
		defer cancel()
	}

	start := time.Now()
	status, respBody, err := c.send(ctx, method, path, body, contentType)
	c.metrics.ObserveRequest(method, mode.String(), statusLabel(status, err), time.Since(start))
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "mode", mode.String(), "error", err)
		return mapTransportError(ctx, err)
	}

	if status == http.StatusUnauthorized && mode.endsSession() {
		c.creds.Clear()
		c.notifyUnauthorized(ctx, mode.redirectOnUnauthorized())
	}
	if err := mapStatus(status, respBody); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.creds.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, b, nil
}

func (c *HTTPClient) notifyUnauthorized(ctx context.Context, redirect bool) {
	c.mu.RLock()
	h := c.onUnauthorized
	c.mu.RUnlock()
	if h != nil {
		h(ctx, redirect)
	}
}

// Ping checks that the backend answers at all. Any HTTP status counts as
// reachable and a 401 here does not touch the credentials.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, _, err := c.send(ctx, http.MethodGet, "/api/auth/token-check", nil, "")
	if err != nil {
		return mapTransportError(ctx, err)
	}
	return nil
}

func statusLabel(status int, err error) string {
	if err != nil || status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

func mapTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func mapStatus(status int, body []byte) error {
	switch {
	case status < 400:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return &APIError{Status: status, Message: errorMessage(body)}
	}
}

// errorMessage pulls "message" or "error" out of a JSON error body and
// falls back to the trimmed raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
