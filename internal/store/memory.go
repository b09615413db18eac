package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// RecordHistory holds a time-ordered list of fetched records for a location.
type RecordHistory struct {
	Records []weather.Record
}

// MemoryStore is a concurrency-safe in-memory history of fetched snapshots.
// Nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	// key: normalized location name, value: history
	data map[string]*RecordHistory

	// retention configuration
	maxHistory int           // max number of records per location
	maxAge     time.Duration // optional max age for records

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*RecordHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

func key(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// SaveRecord appends a new record for its location and enforces retention.
func (s *MemoryStore) SaveRecord(rec weather.Record) {
	k := key(rec.Snapshot.Location)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[k]
	if !ok {
		history = &RecordHistory{}
		s.data[k] = history
	}

	history.Records = append(history.Records, rec)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}

	// Enforce retention by age; the newest record is always kept.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Records); i++ {
			if !history.Records[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.Records) {
			history.Records = history.Records[i:]
		}
	}
}

// GetLatest returns the most recent record for a location.
func (s *MemoryStore) GetLatest(location string) (weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key(location)]
	if !ok || len(history.Records) == 0 {
		return weather.Record{}, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// GetRange returns all records for a location between from and to (inclusive).
func (s *MemoryStore) GetRange(location string, from, to time.Time) ([]weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key(location)]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Record
	for _, rec := range history.Records {
		if !rec.FetchedAt.Before(from) && !rec.FetchedAt.After(to) {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
