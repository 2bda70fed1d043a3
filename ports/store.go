package ports

import (
	"context"
	"time"

	"github.com/layer-3/siws/core"
)

// VerificationRecord is a stored single-use value with an absolute expiry.
type VerificationRecord struct {
	Value     string
	ExpiresAt time.Time
}

// VerificationStore persists challenge records between Start and Verify.
// Create is an upsert: a second Create for the same identifier replaces the
// first. Find returns nil when no record exists. Delete reports whether a
// record was actually removed, so two verifiers racing on the same
// identifier resolve to exactly one winner.
type VerificationStore interface {
	Create(ctx context.Context, identifier, value string, expiresAt time.Time) error
	Find(ctx context.Context, identifier string) (*VerificationRecord, error)
	Delete(ctx context.Context, identifier string) (bool, error)
}

// IdentityStore is the subset of the external identity service the sign-in
// flow needs. Find methods return nil without error when nothing matches.
type IdentityStore interface {
	FindAccountByProviderAccountID(ctx context.Context, providerAccountID string) (*core.Account, error)
	FindUserByID(ctx context.Context, userID string) (*core.User, error)
	CreateUserWithAccount(ctx context.Context, user core.User, account core.Account) (*core.User, error)
	CreateSession(ctx context.Context, userID string) (*core.Session, error)
	FindSessionByToken(ctx context.Context, token string) (*core.Session, error)
}
