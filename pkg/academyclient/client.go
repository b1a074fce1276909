// Package academyclient is the Go client for the academy API. It
// implements the full session handshake — credential login, the
// two-step administrator PIN + Google flow, session restore and
// logout — plus typed wrappers for the resource endpoints.
package academyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Storage keys in the CredentialStore. The token is present iff the
// client is authenticated and has not logged out; the pending pair
// exists only between the admin PIN step and the redirect completion.
const (
	keySessionToken      = "session_token"
	keyPendingAdminEmail = "pending_admin_email"
	keyPINVerified       = "pin_verified"
)

const defaultRequestTimeout = 30 * time.Second

// User is the authenticated profile the API returns.
type User struct {
	ID         string          `json:"id"`
	Role       string          `json:"ruolo"`
	FirstName  string          `json:"nome"`
	LastName   string          `json:"cognome"`
	Email      string          `json:"email"`
	Active     bool            `json:"attivo"`
	FirstLogin bool            `json:"first_login"`
	Detail     json.RawMessage `json:"dettaglio,omitempty"`
}

// Client talks to one academy API server. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	store   CredentialStore

	mu   sync.Mutex
	user *User // non-nil iff the last session check succeeded
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the API at baseURL (with or without the
// trailing /api segment) persisting credentials in store.
func New(baseURL string, store CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !strings.HasSuffix(c.baseURL, "/api") {
		c.baseURL += "/api"
	}
	return c
}

// CurrentUser returns the in-memory authenticated user, or nil.
func (c *Client) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Client) setUser(u *User) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

// token returns the stored session token, empty when absent.
func (c *Client) token() string {
	value, err := c.store.Get(keySessionToken)
	if err != nil {
		return ""
	}
	return value
}

// errorEnvelope is the server's {"error": msg} body.
type errorEnvelope struct {
	Error string `json:"error"`
}

// doJSON performs one request. A non-nil body is JSON-encoded; when
// authenticated is set the stored token rides the Authorization header.
// A non-2xx response decodes the error envelope into *Error.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return newError(KindServer, "encode request: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return newError(KindServer, "build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.token()
		if token == "" {
			return newError(KindUnauthenticated, "not logged in")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "server unreachable", err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		msg := envelope.Error
		if msg == "" {
			msg = fmt.Sprintf("server returned %d", resp.StatusCode)
		}
		return &Error{Kind: kindForStatus(resp.StatusCode, msg), Message: msg, Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return newError(KindServer, "decode response: %v", err)
		}
	}
	return nil
}

func kindForStatus(status int, msg string) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		if strings.Contains(msg, "pin") {
			return KindPIN
		}
		if strings.Contains(msg, "identity") {
			return KindIdentity
		}
		return KindCredentials
	case http.StatusBadGateway:
		return KindIdentity
	default:
		return KindServer
	}
}
