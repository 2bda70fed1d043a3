package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/layer-3/siws/core"
)

// MemoryStore is an in-memory implementation of the IdentityStore interface.
// Production deployments plug in their own identity service; this one backs
// tests and local runs. Session tokens are signed JWTs so they stay opaque
// and unforgeable even without persistence.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]core.User
	accounts map[string]core.Account // keyed by provider-account id
	sessions map[string]core.Session // keyed by session id

	tokenCfg TokenConfig
}

// NewMemoryStore creates a new in-memory identity store
func NewMemoryStore(tokenCfg TokenConfig) *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]core.User),
		accounts: make(map[string]core.Account),
		sessions: make(map[string]core.Session),
		tokenCfg: tokenCfg,
	}
}

// FindAccountByProviderAccountID returns the account linked to a provider
// identity, or nil when none exists
func (s *MemoryStore) FindAccountByProviderAccountID(ctx context.Context, providerAccountID string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[providerAccountID]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

// FindUserByID returns a user by id, or nil when none exists
func (s *MemoryStore) FindUserByID(ctx context.Context, userID string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// CreateUserWithAccount provisions a user and its linked account in one
// step. If the provider-account id is already linked, the existing user is
// returned instead of creating a duplicate.
func (s *MemoryStore) CreateUserWithAccount(ctx context.Context, user core.User, account core.Account) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.accounts[account.ProviderAccountID]; ok {
		owner := s.users[existing.UserID]
		return &owner, nil
	}

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user

	account.ID = uuid.New().String()
	account.UserID = user.ID
	s.accounts[account.ProviderAccountID] = account

	return &user, nil
}

// CreateSession issues a new session for userID
func (s *MemoryStore) CreateSession(ctx context.Context, userID string) (*core.Session, error) {
	now := time.Now()
	sessionID := uuid.New().String()
	expiresAt := now.Add(s.tokenCfg.TTL)

	token, err := mintToken(sessionID, userID, now, expiresAt, s.tokenCfg)
	if err != nil {
		return nil, err
	}

	session := core.Session{
		ID:        sessionID,
		UserID:    userID,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}

	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()

	return &session, nil
}

// FindSessionByToken resolves a session token, returning nil for tokens
// that are unknown, forged or expired
func (s *MemoryStore) FindSessionByToken(ctx context.Context, token string) (*core.Session, error) {
	sessionID, err := parseToken(token, s.tokenCfg)
	if err != nil {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, nil
	}
	return &session, nil
}
