package academyclient

import "fmt"

// ErrorKind classifies a client failure so callers can branch without
// string matching.
type ErrorKind string

const (
	// KindNetwork covers transport failures reaching the server.
	KindNetwork ErrorKind = "network"
	// KindTimeout is the client-side "server not responding" race.
	KindTimeout ErrorKind = "timeout"
	// KindCredentials is a rejected email/password pair or a disabled
	// account; the server does not distinguish.
	KindCredentials ErrorKind = "credentials"
	// KindRoleMismatch means login succeeded but the account does not
	// hold the required role. Recoverable validation, not fatal.
	KindRoleMismatch ErrorKind = "role_mismatch"
	// KindPIN is a rejected administrator PIN.
	KindPIN ErrorKind = "pin"
	// KindIdentity is a failed provider verification at step two.
	KindIdentity ErrorKind = "identity"
	// KindUnauthenticated marks operations attempted without the
	// session or handshake state they require.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindServer is any other non-2xx response.
	KindServer ErrorKind = "server"
)

// Error is the typed failure every client operation returns.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status code, when a response was received.
	Status int
	err    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.err }

// IsKind reports whether err is a client Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	clientErr, ok := err.(*Error)
	return ok && clientErr.Kind == kind
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
