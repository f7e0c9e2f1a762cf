// Package scoring assigns lead scores
// the only scorer is a placeholder that draws uniformly from [Min, Max]
package scoring

import (
	"math/rand/v2"
	"sync"
)

// Placeholder score range, inclusive
const (
	Min = 40
	Max = 99
)

// Input is what a scorer may look at
type Input struct {
	Name    string
	Email   string
	Company string
	Pitch   string
	Source  string
}

// Scorer turns a submitted lead into a 0..100 score
type Scorer interface {
	Score(in Input) float64
}

// ScorerFunc adapts a function to Scorer
type ScorerFunc func(Input) float64

// Score implements Scorer
func (f ScorerFunc) Score(in Input) float64 { return f(in) }

// Random is the placeholder scorer, it ignores the input
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom seeds a placeholder scorer; the same seeds give the same sequence
func NewRandom(seed1, seed2 uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Score implements Scorer
func (r *Random) Score(Input) float64 {
	if r == nil || r.rng == nil {
		return float64(Min + rand.IntN(Max-Min+1))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(Min + r.rng.IntN(Max-Min+1))
}
