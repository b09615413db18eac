package weather

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service fetches snapshots from a source and records every resolved one in
// the history store.
type Service struct {
	store  Store
	source Source
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, source Source) *Service {
	return &Service{
		store:  store,
		source: source,
		now:    time.Now,
	}
}

// Fetch pulls one snapshot from the source and stores it.
func (s *Service) Fetch(ctx context.Context) (Snapshot, error) {
	if s.source == nil {
		log.Error("no snapshot source configured")
		return Snapshot{}, fmt.Errorf("no snapshot source configured")
	}

	snap, err := s.source.Fetch(ctx)
	if err != nil {
		log.WithError(err).Warn("snapshot fetch failed")
		return Snapshot{}, err
	}

	s.store.SaveRecord(Record{
		Snapshot:  snap,
		FetchedAt: s.now().UTC(),
	})
	log.WithFields(log.Fields{
		"location":  snap.Location,
		"condition": snap.Condition,
	}).Debug("snapshot fetched")
	return snap, nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(location string) (Record, error) {
	return s.store.GetLatest(location)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(location string, from, to time.Time) ([]Record, error) {
	return s.store.GetRange(location, from, to)
}
