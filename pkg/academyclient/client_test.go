package academyclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func demoUser(role string) map[string]any {
	return map[string]any{
		"id":      "u1",
		"ruolo":   role,
		"nome":    "Giulia",
		"cognome": "Ferrari",
		"email":   "giulia@example.it",
		"attivo":  true,
	}
}

// countingServer tracks how many requests reached the backend.
type countingServer struct {
	*httptest.Server
	hits int64
}

func newCountingServer(handler http.HandlerFunc) *countingServer {
	cs := &countingServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&cs.hits, 1)
		handler(w, r)
	}))
	return cs
}

func (cs *countingServer) Hits() int64 {
	return atomic.LoadInt64(&cs.hits)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRestoreSession_NoTokenMakesNoRequest(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, demoUser("allievo"))
	})
	defer server.Close()

	client := New(server.URL, NewMemoryStore())
	user, err := client.RestoreSession(context.Background())
	if err != nil {
		t.Fatalf("RestoreSession returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user, got %+v", user)
	}
	if server.Hits() != 0 {
		t.Fatalf("expected zero requests, got %d", server.Hits())
	}
}

func TestRestoreSession_ValidToken(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired session"})
			return
		}
		writeJSON(w, http.StatusOK, demoUser("allievo"))
	})
	defer server.Close()

	store := NewMemoryStore()
	_ = store.Set(keySessionToken, "tok-1")

	client := New(server.URL, store)
	user, err := client.RestoreSession(context.Background())
	if err != nil {
		t.Fatalf("RestoreSession returned error: %v", err)
	}
	if user == nil || user.Email != "giulia@example.it" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if client.CurrentUser() == nil {
		t.Fatalf("current user not cached")
	}
	if server.Hits() != 1 {
		t.Fatalf("expected one request, got %d", server.Hits())
	}
}

func TestRestoreSession_RejectedTokenIsCleared(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired session"})
	})
	defer server.Close()

	store := NewMemoryStore()
	_ = store.Set(keySessionToken, "stale")

	client := New(server.URL, store)
	user, err := client.RestoreSession(context.Background())
	if err != nil {
		t.Fatalf("a rejected token is a clean logged-out start, got error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user, got %+v", user)
	}
	if token, _ := store.Get(keySessionToken); token != "" {
		t.Fatalf("stale token must be deleted, still have %q", token)
	}
}

func TestRestoreSession_UnreachableServerClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	store := NewMemoryStore()
	_ = store.Set(keySessionToken, "tok")

	client := New(server.URL, store)
	_, err := client.RestoreSession(context.Background())
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected a network error, got %v", err)
	}
	if token, _ := store.Get(keySessionToken); token != "" {
		t.Fatalf("token must be deleted on transport failure")
	}
}

func TestLoginWithCredentials_Success(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "student123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-xyz", "user": demoUser("allievo")})
	})
	defer server.Close()

	store := NewMemoryStore()
	client := New(server.URL, store)

	user, err := client.LoginWithCredentials(context.Background(), "giulia@example.it", "student123", "allievo")
	if err != nil {
		t.Fatalf("LoginWithCredentials returned error: %v", err)
	}
	if user.Role != "allievo" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if token, _ := store.Get(keySessionToken); token != "tok-xyz" {
		t.Fatalf("token not persisted, got %q", token)
	}
}

func TestLoginWithCredentials_NoRequiredRole(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-t", "user": demoUser("insegnante")})
	})
	defer server.Close()

	store := NewMemoryStore()
	client := New(server.URL, store)

	// Without a required role any account role is accepted.
	user, err := client.LoginWithCredentials(context.Background(), "mario@example.it", "teacher123", "")
	if err != nil {
		t.Fatalf("LoginWithCredentials returned error: %v", err)
	}
	if user.Role != "insegnante" {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if token, _ := store.Get(keySessionToken); token != "tok-t" {
		t.Fatalf("token not persisted, got %q", token)
	}
}

func TestLoginWithCredentials_BadPassword(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	})
	defer server.Close()

	client := New(server.URL, NewMemoryStore())
	_, err := client.LoginWithCredentials(context.Background(), "giulia@example.it", "wrong", "")
	if !IsKind(err, KindCredentials) {
		t.Fatalf("expected a credentials error, got %v", err)
	}
}

func TestLoginWithCredentials_RoleMismatchPersistsNothing(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-abc", "user": demoUser("allievo")})
	})
	defer server.Close()

	store := NewMemoryStore()
	client := New(server.URL, store)

	_, err := client.LoginWithCredentials(context.Background(), "giulia@example.it", "student123", "insegnante")
	if !IsKind(err, KindRoleMismatch) {
		t.Fatalf("expected a role mismatch error, got %v", err)
	}
	if token, _ := store.Get(keySessionToken); token != "" {
		t.Fatalf("role mismatch must not persist a token, got %q", token)
	}
	if client.CurrentUser() != nil {
		t.Fatalf("role mismatch must not set the current user")
	}
}

func TestLoginWithCredentials_SlowServerReportsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, map[string]any{"token": "late", "user": demoUser("allievo")})
	})
	defer server.Close()
	defer close(release)

	prev := loginTimeout
	loginTimeout = 50 * time.Millisecond
	defer func() { loginTimeout = prev }()

	store := NewMemoryStore()
	client := New(server.URL, store)

	start := time.Now()
	_, err := client.LoginWithCredentials(context.Background(), "giulia@example.it", "student123", "")
	if !IsKind(err, KindTimeout) {
		t.Fatalf("expected a timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
	if err.Error() != "server not responding" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if token, _ := store.Get(keySessionToken); token != "" {
		t.Fatalf("abandoned login must not persist a token")
	}
}

func TestAdminHandshake_HappyPath(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/admin/pin":
			writeJSON(w, http.StatusOK, map[string]string{"message": "PIN verificato. Procedere con Google."})
		case "/api/auth/admin/google":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["session_id"] != "sess-42" || req["email"] != "admin@example.it" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "identity provider rejected the session"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"token": "admin-tok", "user": demoUser("amministratore")})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	store := NewMemoryStore()
	client := New(server.URL, store)

	if err := client.LoginAdminPIN(context.Background(), "admin@example.it", "1234"); err != nil {
		t.Fatalf("LoginAdminPIN returned error: %v", err)
	}
	if email, _ := store.Get(keyPendingAdminEmail); email != "admin@example.it" {
		t.Fatalf("pending email marker missing, got %q", email)
	}

	authURL := client.AdminAuthURL("https://app.example.it/callback")
	if !strings.Contains(authURL, "redirect=https%3A%2F%2Fapp.example.it%2Fcallback") {
		t.Fatalf("unexpected auth url: %q", authURL)
	}

	user, err := client.CompleteAdminLogin(context.Background(), "https://app.example.it/callback#session_id=sess-42")
	if err != nil {
		t.Fatalf("CompleteAdminLogin returned error: %v", err)
	}
	if user.Role != "amministratore" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if token, _ := store.Get(keySessionToken); token != "admin-tok" {
		t.Fatalf("token not persisted, got %q", token)
	}
	if email, _ := store.Get(keyPendingAdminEmail); email != "" {
		t.Fatalf("pending markers must be cleared after completion")
	}
}

func TestCompleteAdminLogin_WithoutMarkersMakesNoRequest(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "t", "user": demoUser("amministratore")})
	})
	defer server.Close()

	client := New(server.URL, NewMemoryStore())
	_, err := client.CompleteAdminLogin(context.Background(), "https://app.example.it/callback?session_id=sess-42")
	if !IsKind(err, KindUnauthenticated) {
		t.Fatalf("expected an unauthenticated error, got %v", err)
	}
	if server.Hits() != 0 {
		t.Fatalf("completion without markers must not reach the backend, got %d requests", server.Hits())
	}
}

func TestCompleteAdminLogin_FailureClearsMarkers(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "identity provider rejected the session"})
	})
	defer server.Close()

	store := NewMemoryStore()
	_ = store.Set(keyPendingAdminEmail, "admin@example.it")
	_ = store.Set(keyPINVerified, "true")

	client := New(server.URL, store)
	_, err := client.CompleteAdminLogin(context.Background(), "https://app.example.it/cb?session_id=bad")
	if !IsKind(err, KindIdentity) {
		t.Fatalf("expected an identity error, got %v", err)
	}
	if email, _ := store.Get(keyPendingAdminEmail); email != "" {
		t.Fatalf("failed completion must clear the pending email")
	}
	if verified, _ := store.Get(keyPINVerified); verified != "" {
		t.Fatalf("failed completion must clear the pin marker")
	}
}

func TestCompleteAdminLogin_CallbackWithoutSessionID(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	defer server.Close()

	store := NewMemoryStore()
	_ = store.Set(keyPendingAdminEmail, "admin@example.it")
	_ = store.Set(keyPINVerified, "true")

	client := New(server.URL, store)
	_, err := client.CompleteAdminLogin(context.Background(), "https://app.example.it/callback")
	if !IsKind(err, KindIdentity) {
		t.Fatalf("expected an identity error, got %v", err)
	}
}

func TestLogout_ClearsStateEvenWhenServerFails(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})
	defer server.Close()

	store := NewMemoryStore()
	_ = store.Set(keySessionToken, "tok")
	_ = store.Set(keyPendingAdminEmail, "admin@example.it")
	_ = store.Set(keyPINVerified, "true")

	client := New(server.URL, store)
	if err := client.Logout(context.Background()); err == nil {
		t.Fatalf("expected the server failure to surface")
	}
	if token, _ := store.Get(keySessionToken); token != "" {
		t.Fatalf("token must be cleared regardless of the server outcome")
	}
	if email, _ := store.Get(keyPendingAdminEmail); email != "" {
		t.Fatalf("pending markers must be cleared")
	}
	if client.CurrentUser() != nil {
		t.Fatalf("current user must be cleared")
	}
}

func TestExtractSessionID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://app.example.it/cb?session_id=abc", "abc"},
		{"https://app.example.it/cb#session_id=def", "def"},
		{"https://app.example.it/cb#?session_id=ghi", "ghi"},
		{"https://app.example.it/cb?other=1", ""},
		{"://not a url", ""},
	}
	for _, tc := range cases {
		if got := extractSessionID(tc.url); got != tc.want {
			t.Fatalf("extractSessionID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestAuthenticatedCallWithoutToken(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	defer server.Close()

	client := New(server.URL, NewMemoryStore())
	_, err := client.Stats(context.Background())
	if !IsKind(err, KindUnauthenticated) {
		t.Fatalf("expected an unauthenticated error, got %v", err)
	}
}
