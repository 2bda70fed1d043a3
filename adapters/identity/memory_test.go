package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/siws/core"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "test"})
}

func TestCreateUserWithAccount(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	account, err := s.FindAccountByProviderAccountID(ctx, "siws:addr1")
	require.NoError(t, err)
	assert.Nil(t, account)

	user, err := s.CreateUserWithAccount(ctx,
		core.User{Verified: true},
		core.Account{ProviderID: core.ProviderID, ProviderAccountID: "siws:addr1"},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.Verified)

	account, err = s.FindAccountByProviderAccountID(ctx, "siws:addr1")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, user.ID, account.UserID)

	found, err := s.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
}

func TestCreateUserWithAccountIsIdempotent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	first, err := s.CreateUserWithAccount(ctx,
		core.User{Verified: true},
		core.Account{ProviderID: core.ProviderID, ProviderAccountID: "siws:addr1"},
	)
	require.NoError(t, err)

	second, err := s.CreateUserWithAccount(ctx,
		core.User{Verified: true},
		core.Account{ProviderID: core.ProviderID, ProviderAccountID: "siws:addr1"},
	)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "user-1", session.UserID)

	found, err := s.FindSessionByToken(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, session.ID, found.ID)
	assert.Equal(t, "user-1", found.UserID)
}

func TestFindSessionByTokenRejectsForgeries(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	found, err := s.FindSessionByToken(ctx, "not-a-jwt")
	require.NoError(t, err)
	assert.Nil(t, found)

	// A token signed with a different secret must not resolve
	other := NewMemoryStore(TokenConfig{Secret: "other-secret", TTL: time.Hour, Issuer: "test"})
	session, err := other.CreateSession(ctx, "user-1")
	require.NoError(t, err)

	found, err = s.FindSessionByToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCreateSessionRequiresSecret(t *testing.T) {
	s := NewMemoryStore(TokenConfig{TTL: time.Hour})

	_, err := s.CreateSession(context.Background(), "user-1")
	assert.Error(t, err)
}
