package tests

import (
	"fmt"
	"math/rand"
	"time"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	// IntRange draws from [lo, hi].
	IntRange func(lo, hi int) int
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64:  random.Float64,
		Bool:     func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		IntRange: func(lo, hi int) int { return lo + random.Intn(hi-lo+1) },
	}
}

// ScriptedSource replays fixed draws. Ints are raw IntN results, so a die face
// f is scripted as f-1. Running out of script panics so an unexpected draw
// fails the test loudly.
type ScriptedSource struct {
	Ints   []int
	Floats []float64
}

func (s *ScriptedSource) IntN(n int) int {
	if len(s.Ints) == 0 {
		panic("scripted source: out of ints")
	}

	v := s.Ints[0]
	s.Ints = s.Ints[1:]

	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted source: %d not in [0,%d)", v, n))
	}

	return v
}

func (s *ScriptedSource) Float64() float64 {
	if len(s.Floats) == 0 {
		panic("scripted source: out of floats")
	}

	v := s.Floats[0]
	s.Floats = s.Floats[1:]

	return v
}

// Drained reports whether every scripted draw was consumed.
func (s *ScriptedSource) Drained() bool {
	return len(s.Ints) == 0 && len(s.Floats) == 0
}
