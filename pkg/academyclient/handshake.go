package academyclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// loginTimeout bounds how long LoginWithCredentials waits before
// reporting the server as unresponsive. Variable so tests can shorten it.
var loginTimeout = 10 * time.Second

// defaultProviderURL is the Google-auth page administrators are sent
// to after the PIN step.
const defaultProviderURL = "https://auth.emergentagent.com/"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pinRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

type completeRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// sessionResponse is the envelope both login endpoints return.
type sessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RestoreSession resumes a previous login. With no stored token it
// returns (nil, nil) without touching the network. With one, it makes
// a single profile call: success restores the user, any failure —
// rejection or transport — discards the token. No retries.
func (c *Client) RestoreSession(ctx context.Context) (*User, error) {
	if c.token() == "" {
		c.setUser(nil)
		return nil, nil
	}

	var user User
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user, true)
	if err != nil {
		_ = c.store.Delete(keySessionToken)
		c.setUser(nil)
		if IsKind(err, KindNetwork) || IsKind(err, KindTimeout) {
			return nil, err
		}
		// A rejected token is a normal logged-out start, not an error.
		return nil, nil
	}

	c.setUser(&user)
	return &user, nil
}

// LoginWithCredentials signs in with email and password. When
// requiredRole is non-empty a successful login under a different role
// is refused and nothing is persisted. A slow server is abandoned
// after ten seconds and reported as not responding; the stray request
// is left to finish on its own.
func (c *Client) LoginWithCredentials(ctx context.Context, email, password, requiredRole string) (*User, error) {
	type loginResult struct {
		session sessionResponse
		err     error
	}

	// The request runs detached from ctx so a timed-out attempt is
	// abandoned rather than cancelled; the goroutine releases its
	// context itself once the server eventually answers.
	reqCtx, cancel := context.WithCancel(context.Background())
	results := make(chan loginResult, 1)
	go func() {
		defer cancel()
		var session sessionResponse
		err := c.doJSON(reqCtx, http.MethodPost, "/auth/login", credentialsRequest{
			Email:    email,
			Password: password,
		}, &session, false)
		results <- loginResult{session: session, err: err}
	}()

	timer := time.NewTimer(loginTimeout)
	defer timer.Stop()

	var result loginResult
	select {
	case result = <-results:
	case <-timer.C:
		return nil, newError(KindTimeout, "server not responding")
	case <-ctx.Done():
		cancel()
		return nil, &Error{Kind: KindNetwork, Message: "login cancelled", err: ctx.Err()}
	}

	if result.err != nil {
		return nil, result.err
	}

	user := result.session.User
	if requiredRole != "" && user.Role != requiredRole {
		return nil, newError(KindRoleMismatch, "account role is %s, not %s", user.Role, requiredRole)
	}

	if err := c.store.Set(keySessionToken, result.session.Token); err != nil {
		return nil, newError(KindServer, "persist session: %v", err)
	}
	c.setUser(&user)
	return &user, nil
}

// LoginAdminPIN runs step one of the administrator flow. On success
// the pending markers are persisted so the redirect completion can
// prove the PIN was checked on this device.
func (c *Client) LoginAdminPIN(ctx context.Context, email, pin string) error {
	var resp messageResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/admin/pin", pinRequest{
		Email: email,
		PIN:   pin,
	}, &resp, false)
	if err != nil {
		return err
	}

	if err := c.store.Set(keyPendingAdminEmail, email); err != nil {
		return newError(KindServer, "persist handshake state: %v", err)
	}
	if err := c.store.Set(keyPINVerified, "true"); err != nil {
		return newError(KindServer, "persist handshake state: %v", err)
	}
	return nil
}

// AdminAuthURL is the Google-auth page the administrator must visit
// after the PIN step; the provider redirects back to redirectURL with
// a session_id attached.
func (c *Client) AdminAuthURL(redirectURL string) string {
	return defaultProviderURL + "?redirect=" + url.QueryEscape(redirectURL)
}

// CompleteAdminLogin finishes the administrator flow with the URL the
// provider redirected to. It requires both pending markers from the
// PIN step; without them it fails locally and never contacts the
// backend. The markers are cleared whether the exchange succeeds or
// not, so a failed completion restarts from the PIN.
func (c *Client) CompleteAdminLogin(ctx context.Context, callbackURL string) (*User, error) {
	email, _ := c.store.Get(keyPendingAdminEmail)
	verified, _ := c.store.Get(keyPINVerified)
	if email == "" || verified != "true" {
		return nil, newError(KindUnauthenticated, "pin verification required before completing login")
	}

	c.clearPendingMarkers()

	sessionID := extractSessionID(callbackURL)
	if sessionID == "" {
		return nil, newError(KindIdentity, "callback url carries no session_id")
	}

	var session sessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/admin/google", completeRequest{
		SessionID: sessionID,
		Email:     email,
	}, &session, false)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(keySessionToken, session.Token); err != nil {
		return nil, newError(KindServer, "persist session: %v", err)
	}
	user := session.User
	c.setUser(&user)
	return &user, nil
}

// Logout ends the session. The server call is best effort: local
// credentials and handshake state are wiped regardless of its outcome.
func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.token() != "" {
		err = c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, true)
	}

	_ = c.store.Delete(keySessionToken)
	c.clearPendingMarkers()
	c.setUser(nil)
	return err
}

func (c *Client) clearPendingMarkers() {
	_ = c.store.Delete(keyPendingAdminEmail)
	_ = c.store.Delete(keyPINVerified)
}

// extractSessionID pulls session_id out of a provider callback URL,
// checking the query string first and the fragment second.
func extractSessionID(callbackURL string) string {
	parsed, err := url.Parse(callbackURL)
	if err != nil {
		return ""
	}
	if id := parsed.Query().Get("session_id"); id != "" {
		return id
	}
	fragment, err := url.ParseQuery(strings.TrimPrefix(parsed.Fragment, "?"))
	if err != nil {
		return ""
	}
	return fragment.Get("session_id")
}
