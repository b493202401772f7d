package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_EntryExpires(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ZeroTTLIsIgnored(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "expired-already", 0))

	revoked, err := blacklist.IsRevoked(ctx, "expired-already")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	issuedBefore := time.Now().Add(-time.Minute)
	require.NoError(t, blacklist.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err := blacklist.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsUserRevoked(ctx, "user-1", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued after the cutoff stay valid")

	revoked, err = blacklist.IsUserRevoked(ctx, "user-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)
}
