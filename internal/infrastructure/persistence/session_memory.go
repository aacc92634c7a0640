package persistence

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"mystic_market/internal/domain"
	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/errcodes"
)

// MemorySessionStore keeps sessions in process. A session expires ttl after
// its last save.
type MemorySessionStore struct {
	sessions *cache.Cache
}

func NewMemorySessionStore(ttl, cleanupInterval time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: cache.New(ttl, cleanupInterval),
	}
}

func (s *MemorySessionStore) Get(_ context.Context, id value.SessionID) (entity.Session, error) {
	v, found := s.sessions.Get(id.String())
	if !found {
		return entity.Session{}, domain.NewError(errcodes.SessionNotFound, "session not found")
	}

	return v.(entity.Session), nil //nolint:forcetypeassert
}

func (s *MemorySessionStore) Save(_ context.Context, session entity.Session) error {
	s.sessions.Set(session.ID.String(), session, cache.DefaultExpiration)
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id value.SessionID) error {
	s.sessions.Delete(id.String())
	return nil
}

func (s *MemorySessionStore) Ping(context.Context) error {
	return nil
}

func (s *MemorySessionStore) Len() int {
	return s.sessions.ItemCount()
}
