package weather

import (
	"context"
	"errors"
	"math/rand/v2"
)

// ErrEmptyPool is returned when the pool holds no snapshots to pick from.
var ErrEmptyPool = errors.New("snapshot pool is empty")

type globalRand struct{}

func (globalRand) IntN(n int) int    { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand is backed by the runtime's shared generator and is safe for
// concurrent use.
var DefaultRand Rand = globalRand{}

// PoolSource picks one snapshot uniformly at random from a fixed pool.
type PoolSource struct {
	pool []Snapshot
	rnd  Rand
}

// NewPoolSource copies the pool. A nil rnd falls back to DefaultRand.
func NewPoolSource(pool []Snapshot, rnd Rand) *PoolSource {
	if rnd == nil {
		rnd = DefaultRand
	}
	return &PoolSource{
		pool: append([]Snapshot(nil), pool...),
		rnd:  rnd,
	}
}

// Fetch returns a copy of a randomly chosen pool entry.
func (p *PoolSource) Fetch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if len(p.pool) == 0 {
		return Snapshot{}, ErrEmptyPool
	}
	return p.pool[p.rnd.IntN(len(p.pool))], nil
}

// Pool returns a copy of the snapshots the source picks from.
func (p *PoolSource) Pool() []Snapshot {
	return append([]Snapshot(nil), p.pool...)
}
