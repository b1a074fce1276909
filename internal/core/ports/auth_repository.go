package ports

import (
	"context"
	"time"

	"github.com/imusici/academy-system/internal/core/domain"
)

// SessionRepository persists login sessions. A bearer token is valid
// only while its row exists and is unexpired.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// AdminAccessRepository persists the PIN second factor for
// amministratore accounts.
type AdminAccessRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.AdminAccess, error)
	Upsert(ctx context.Context, access *domain.AdminAccess) error
	// SetPIN replaces the stored hash and reactivates the PIN.
	SetPIN(ctx context.Context, userID, pinHash string) error
	// RecordIdentity stores the provider subject and stamps last access.
	RecordIdentity(ctx context.Context, userID, googleID string, at time.Time) error
	DeleteByUser(ctx context.Context, userID string) error
}

// ChallengeStore holds the one-shot marker set by a successful PIN
// verification and consumed by the identity step. Implementations
// expire entries on their own.
type ChallengeStore interface {
	Put(ctx context.Context, email string) error
	// Consume removes the marker, reporting whether it was present.
	Consume(ctx context.Context, email string) (bool, error)
}

// IdentityClaims is the profile the identity provider returns for a
// valid session id.
type IdentityClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier exchanges a provider session id for the
// authenticated profile.
type IdentityVerifier interface {
	Verify(ctx context.Context, sessionID string) (*IdentityClaims, error)
}
