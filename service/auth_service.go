package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mr-tron/base58"

	"github.com/layer-3/siws/core"
	"github.com/layer-3/siws/ports"
)

const (
	// DefaultNonceTTL bounds how long an issued challenge stays valid
	DefaultNonceTTL = 5 * time.Minute

	// nonceSize is the number of random bytes behind each nonce
	nonceSize = 32
)

// Config carries the static trust anchor of a deployment. It is read by
// both the challenge issuer and the verifier and never mutated after
// construction.
type Config struct {
	Domain    string        // Required; bare host, no protocol prefix
	URI       string        // The service's own callback URL, never client-supplied
	Statement string        // Optional; defaults to core.DefaultStatement
	NonceTTL  time.Duration // Defaults to DefaultNonceTTL
}

// ChallengeOutput is what a client needs to build the canonical message.
type ChallengeOutput struct {
	Nonce     string
	Domain    string
	URI       string
	Statement string
}

// SignInResult is the outcome of a successful verification.
type SignInResult struct {
	UserID  string
	Session *core.Session
}

// AuthService implements the SIWS challenge/verify flow on top of an
// external verification-value store and identity store.
type AuthService struct {
	log           *slog.Logger
	verifications ports.VerificationStore
	identity      ports.IdentityStore
	eventPub      ports.EventPublisher

	cfg Config
}

// NewAuthService creates a new authentication service. eventPub may be nil
// when no event bus is deployed.
func NewAuthService(
	logger *slog.Logger,
	verifications ports.VerificationStore,
	identity ports.IdentityStore,
	eventPub ports.EventPublisher,
	cfg Config,
) *AuthService {
	if cfg.NonceTTL <= 0 {
		cfg.NonceTTL = DefaultNonceTTL
	}
	if cfg.Statement == "" {
		cfg.Statement = core.DefaultStatement
	}

	return &AuthService{
		log:           logger,
		verifications: verifications,
		identity:      identity,
		eventPub:      eventPub,
		cfg:           cfg,
	}
}

// Start issues a new challenge for address: a fresh crypto-random nonce,
// stored under the address-derived identifier with the configured TTL.
// Issuing again for the same address supersedes the previous challenge.
func (s *AuthService) Start(ctx context.Context, address string) (*ChallengeOutput, error) {
	if len(address) < core.MinAddressLength {
		return nil, core.ErrMalformedAddress
	}

	nonceBytes := make([]byte, nonceSize)
	if _, err := rand.Read(nonceBytes); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := base58.Encode(nonceBytes)

	expiresAt := time.Now().Add(s.cfg.NonceTTL)
	if err := s.verifications.Create(ctx, core.ChallengeIdentifier(address), nonce, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	return &ChallengeOutput{
		Nonce:     nonce,
		Domain:    s.cfg.Domain,
		URI:       s.cfg.URI,
		Statement: s.cfg.Statement,
	}, nil
}

// Verify runs the sign-in state machine for a submitted message and
// signature. Checks run in a fixed order: local message shape, challenge
// lookup, unconditional consumption, domain binding, signature, identity
// resolution, session issuance. The challenge is burned as soon as it is
// found, so a failed signature check on a legitimately issued nonce forces
// the client to restart the flow.
func (s *AuthService) Verify(ctx context.Context, address, message, signature string) (*SignInResult, error) {
	logger := s.log.With(slog.String("op", "service.Verify"))

	if len(address) < core.MinAddressLength {
		return nil, core.ErrMalformedAddress
	}

	nonce, ok := core.ExtractNonce(message)
	if !ok {
		return nil, core.ErrMalformedMessage
	}

	identifier := core.ChallengeIdentifier(address)
	record, err := s.verifications.Find(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("challenge lookup failed: %w", err)
	}
	if record == nil || !record.ExpiresAt.After(time.Now()) {
		return nil, core.ErrNonceInvalidOrExpired
	}

	// Single-use: consume before any further checks. A concurrent verifier
	// that loses the delete race sees the same outcome as a replay.
	deleted, err := s.verifications.Delete(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("challenge consumption failed: %w", err)
	}
	if !deleted {
		return nil, core.ErrNonceInvalidOrExpired
	}

	// The submitted message must carry the nonce we actually issued.
	if nonce != record.Value {
		return nil, core.ErrNonceInvalidOrExpired
	}

	if !strings.HasPrefix(message, core.GreetingPrefix(s.cfg.Domain)) {
		return nil, core.ErrDomainMismatch
	}

	if err := core.VerifyMessageSignature(address, message, signature); err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, address)
	if err != nil {
		return nil, err
	}

	session, err := s.identity.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishSignIn(ctx, address, user.ID, session.ID); err != nil {
			// The sign-in already succeeded; the event is best-effort.
			logger.Warn("failed to publish sign-in event", slog.Any("error", err))
		}
	}

	logger.Info("wallet signed in", slog.String("user_id", user.ID))

	return &SignInResult{UserID: user.ID, Session: session}, nil
}

// resolveUser finds the user behind an address, provisioning one on first
// sign-in. Provisioning marks the user verified since cryptographic proof
// of key ownership was just produced.
func (s *AuthService) resolveUser(ctx context.Context, address string) (*core.User, error) {
	accountID := core.AccountID(address)

	account, err := s.identity.FindAccountByProviderAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	if account == nil {
		user, err := s.identity.CreateUserWithAccount(ctx,
			core.User{Verified: true},
			core.Account{ProviderID: core.ProviderID, ProviderAccountID: accountID},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to provision user: %w", err)
		}
		return user, nil
	}

	user, err := s.identity.FindUserByID(ctx, account.UserID)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("account %s references missing user: %w", account.ID, core.ErrStoreOperationFailed)
	}
	return user, nil
}
