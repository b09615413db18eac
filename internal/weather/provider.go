package weather

import (
	"context"
	"time"
)

// Source produces the current weather snapshot. The mock pool is the only
// source shipped; a real backend would implement the same contract.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Store is the contract the in-memory history store must satisfy.
type Store interface {
	SaveRecord(rec Record)
	GetLatest(location string) (Record, error)
	GetRange(location string, from, to time.Time) ([]Record, error)
}

// Rand is the randomness used for pool selection and display jitter.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}
