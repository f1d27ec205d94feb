// internal/pkg/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/jwt"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "portal:session:"

// Store keeps portal sessions in Redis.
type Store struct {
	client    redis.UniversalClient
	inspector *jwt.Inspector
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewStore(client redis.UniversalClient, inspector *jwt.Inspector, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if inspector == nil {
		inspector = jwt.NewInspector(nil)
	}
	return &Store{
		client:    client,
		inspector: inspector,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new session for the upstream token and returns it.
// The session never outlives a JWT token's exp.
func (s *Store) Create(ctx context.Context, token, ip, userAgent string) (*Data, error) {
	if token == "" {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "missing upstream token")
	}

	now := s.now()
	expires := now.Add(s.ttl)
	data := &Data{
		ID:             ulid.Make().String(),
		Token:          token,
		IPAddress:      ip,
		UserAgent:      userAgent,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	claims, err := s.inspector.Inspect(token)
	switch {
	case err == nil:
		if claims.Expired(now) {
			return nil, xerrors.Wrap(xerrors.ErrSessionExpired, "upstream token already expired")
		}
		if exp, ok := claims.Expiry(); ok && exp.Before(expires) {
			expires = exp
		}
		data.Subject = claims.Subject
		data.Email = claims.Email
	case errors.Is(err, jwt.ErrNotJWT):
	default:
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, err.Error())
	}
	data.ExpiresAt = expires

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(data.ID), payload, expires.Sub(now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session in redis: %w", err)
	}
	return data, nil
}

// Get loads a session. A missing or expired session yields ErrSessionExpired.
func (s *Store) Get(ctx context.Context, id string) (*Data, error) {
	if id == "" {
		return nil, xerrors.ErrSessionExpired
	}
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &data, nil
}

// Touch records activity on the session without extending its lifetime.
func (s *Store) Touch(ctx context.Context, data *Data) error {
	data.LastActivityAt = s.now()
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.SetArgs(ctx, s.key(data.ID), payload, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Token implements Provider using the session id carried by ctx.
func (s *Store) Token(ctx context.Context) (string, bool) {
	id, ok := SessionIDFromContext(ctx)
	if !ok {
		return "", false
	}
	data, err := s.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, xerrors.ErrSessionExpired) {
			s.logger.Warn("session lookup failed", zap.String("session_id", id), zap.Error(err))
		}
		return "", false
	}
	return data.Token, true
}

func (s *Store) key(id string) string {
	return keyPrefix + id
}
