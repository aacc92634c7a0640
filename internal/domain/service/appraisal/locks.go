package service

import (
	"hash/fnv"
	"sync"

	"mystic_market/internal/domain/value"
)

const lockStripes = 64

// sessionLocks serializes work on one session without a lock per session.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *sessionLocks) lock(id value.SessionID) func() {
	h := fnv.New32a()
	h.Write([]byte(id)) //nolint:errcheck

	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()

	return mu.Unlock
}
