package session

import (
	"context"
	"testing"
	"time"

	xerrors "estate-portal/internal/pkg/errors"
	pjwt "estate-portal/internal/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, nil, ttl, nil), mr
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := pjwt.Claims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "agent-9",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestStoreCreateGetDelete(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	data, err := store.Create(ctx, "opaque-token", "10.0.0.1", "test")
	require.NoError(t, err)
	require.NotEmpty(t, data.ID)
	require.True(t, mr.Exists(keyPrefix+data.ID))
	require.InDelta(t, time.Hour.Seconds(), mr.TTL(keyPrefix+data.ID).Seconds(), 1)

	got, err := store.Get(ctx, data.ID)
	require.NoError(t, err)
	require.Equal(t, "opaque-token", got.Token)
	require.Equal(t, "10.0.0.1", got.IPAddress)

	require.NoError(t, store.Touch(ctx, got))
	require.InDelta(t, time.Hour.Seconds(), mr.TTL(keyPrefix+data.ID).Seconds(), 1)

	require.NoError(t, store.Delete(ctx, data.ID))
	_, err = store.Get(ctx, data.ID)
	require.ErrorIs(t, err, xerrors.ErrSessionExpired)
	require.NoError(t, store.Delete(ctx, data.ID))
}

func TestStoreCapsTTLAtTokenExpiry(t *testing.T) {
	store, mr := newTestStore(t, 24*time.Hour)
	data, err := store.Create(context.Background(), signed(t, time.Now().Add(10*time.Minute)), "", "")
	require.NoError(t, err)
	require.Equal(t, "agent-9", data.Subject)
	require.Equal(t, "ada@example.com", data.Email)

	ttl := mr.TTL(keyPrefix + data.ID)
	require.LessOrEqual(t, ttl, 10*time.Minute)
	require.Greater(t, ttl, 9*time.Minute)
}

func TestStoreRejectsExpiredAndMissingTokens(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	_, err := store.Create(ctx, signed(t, time.Now().Add(-time.Minute)), "", "")
	require.ErrorIs(t, err, xerrors.ErrSessionExpired)

	_, err = store.Create(ctx, "", "", "")
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)

	_, err = store.Get(ctx, "")
	require.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestStoreExpiresWithRedis(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	data, err := store.Create(context.Background(), "tok", "", "")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(context.Background(), data.ID)
	require.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestProviders(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	data, err := store.Create(context.Background(), "from-redis", "", "")
	require.NoError(t, err)

	chain := Chain{FromContext, store}

	_, ok := chain.Token(context.Background())
	require.False(t, ok)

	ctx := WithSessionID(context.Background(), data.ID)
	tok, ok := chain.Token(ctx)
	require.True(t, ok)
	require.Equal(t, "from-redis", tok)

	tok, ok = chain.Token(WithToken(ctx, "bearer"))
	require.True(t, ok)
	require.Equal(t, "bearer", tok)

	_, ok = chain.Token(WithSessionID(context.Background(), "unknown"))
	require.False(t, ok)

	_, ok = FromContext.Token(WithToken(context.Background(), "   "))
	require.False(t, ok)

	tok, ok = Static("fixed").Token(context.Background())
	require.True(t, ok)
	require.Equal(t, "fixed", tok)
	_, ok = Static("").Token(context.Background())
	require.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client, 2, time.Minute)
	ctx := context.Background()

	ok, remaining, err := limiter.Allow(ctx, "refresh", "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), remaining)

	ok, _, _ = limiter.Allow(ctx, "refresh", "s1")
	require.True(t, ok)
	ok, remaining, _ = limiter.Allow(ctx, "refresh", "s1")
	require.False(t, ok)
	require.Equal(t, int64(0), remaining)

	ok, _, _ = limiter.Allow(ctx, "refresh", "s2")
	require.True(t, ok, "keys are independent")

	mr.FastForward(2 * time.Minute)
	left, err := limiter.Remaining(ctx, "refresh", "s1")
	require.NoError(t, err)
	require.Equal(t, int64(2), left)

	require.NoError(t, limiter.Reset(ctx, "refresh", "s2"))

	var disabled *RateLimiter
	ok, _, err = disabled.Allow(ctx, "refresh", "x")
	require.NoError(t, err)
	require.True(t, ok)
}
