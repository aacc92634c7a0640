package pricing

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource is the entropy consumed by the roller.
type RandomSource interface {
	IntN(n int) int   // [0, n)
	Float64() float64 // [0, 1)
}

// lockedSource is shared by all sessions, so draws are serialized.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns a goroutine-safe PCG source. A zero seed is replaced
// by one read from crypto/rand.
func NewRandomSource(seed uint64) RandomSource {
	seq := uint64(0)

	if seed == 0 {
		var buf [16]byte
		if _, err := cryptorand.Read(buf[:]); err == nil {
			seed = binary.LittleEndian.Uint64(buf[:8])
			seq = binary.LittleEndian.Uint64(buf[8:])
		} else {
			seed = rand.Uint64()
		}
	}

	return &lockedSource{r: rand.New(rand.NewPCG(seed, seq))} //nolint:gosec // game dice, not secrets
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.r.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.r.Float64()
}

// uniformInt is an inclusive die roll in [lo, hi].
func uniformInt(rng RandomSource, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// uniformReal draws from [lo, hi).
func uniformReal(rng RandomSource, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
