// Package redis provides Redis-backed adapters for sessions and listings.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	apperrors "github.com/guildboard/guildboard/internal/errors"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = apperrors.NotFound("not found")

// SessionStore is a Redis-based session store.
// Keys expire with the session, so Redis drops abandoned sessions on its own.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a session store using the "session:" key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "session:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// TTL normally handles this; a clock skew between hosts can still leave a stale record.
	if sess.Expired(time.Now()) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}
