package persistence

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"mystic_market/internal/domain"
	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const sessionKeyPrefix = "mystic_market:session:"

// RedisSessionStore shares sessions between replicas. Per-session ordering is
// only guaranteed within one replica.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) Get(ctx context.Context, id value.SessionID) (entity.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Session{}, domain.NewError(errcodes.SessionNotFound, "session not found")
		}

		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get session")
	}

	var session entity.Session

	if err := json.Unmarshal(data, &session); err != nil {
		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode session")
	}

	return session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode session")
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save session")
	}

	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id value.SessionID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete session")
	}

	return nil
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err() //nolint:wrapcheck
}

func sessionKey(id value.SessionID) string {
	return sessionKeyPrefix + id.String()
}
