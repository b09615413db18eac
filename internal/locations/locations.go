// Package locations manages the saved locations list.
package locations

import (
	"errors"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/umahmood/haversine"

	"github.com/i474232898/weather-dashboard/internal/listing"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrNotFound is returned when no location has the requested id.
var ErrNotFound = errors.New("location not found")

// Entry is a location annotated for display.
type Entry struct {
	weather.Location
	Icon       weather.Icon `json:"icon"`
	Glyph      string       `json:"glyph"`
	DistanceKm *float64     `json:"distanceKm,omitempty"`
}

// View is the locations page content: favorites first, then the rest.
type View struct {
	Query     string  `json:"query"`
	Favorites []Entry `json:"favorites"`
	Others    []Entry `json:"others"`
}

// Service holds the in-memory list of saved locations.
type Service struct {
	list *listing.List[weather.Location]
	home *weather.Coordinates
}

// NewService seeds the list. home, when set, is the reference point for
// distances.
func NewService(seed []weather.Location, home *weather.Coordinates) *Service {
	return &Service{
		list: listing.New(seed),
		home: home,
	}
}

// All returns every saved location in order.
func (s *Service) All() []weather.Location {
	return s.list.Items()
}

// Len returns the number of saved locations.
func (s *Service) Len() int {
	return s.list.Len()
}

// ToggleFavorite flips the favorite flag of one location.
func (s *Service) ToggleFavorite(id string) (weather.Location, error) {
	loc, ok := s.list.Update(id, func(l weather.Location) weather.Location {
		l.IsFavorite = !l.IsFavorite
		return l
	})
	if !ok {
		return weather.Location{}, ErrNotFound
	}
	log.WithFields(log.Fields{"id": id, "favorite": loc.IsFavorite}).Debug("favorite toggled")
	return loc, nil
}

// Remove drops one location. It reports false, without error, when the id
// is unknown.
func (s *Service) Remove(id string) bool {
	removed := s.list.Remove(id)
	if removed {
		log.WithField("id", id).Debug("location removed")
	}
	return removed
}

// Add saves a search result as a new, non-favorite location.
func (s *Service) Add(r weather.SearchResult) (weather.Location, error) {
	loc := weather.Location{
		ID:          uuid.NewString(),
		Name:        r.Name,
		Country:     r.Country,
		Temperature: r.Temperature,
		Condition:   r.Condition,
	}
	if err := s.list.Add(loc); err != nil {
		return weather.Location{}, err
	}
	log.WithFields(log.Fields{"id": loc.ID, "name": loc.Name}).Info("location added")
	return loc, nil
}

// View filters by name or country and splits favorites from the rest.
func (s *Service) View(query string) View {
	favs, others := s.list.Partition(func(l weather.Location) bool {
		return l.IsFavorite
	})
	return View{
		Query:     query,
		Favorites: s.entries(favs, query),
		Others:    s.entries(others, query),
	}
}

func (s *Service) entries(locs []weather.Location, query string) []Entry {
	out := make([]Entry, 0, len(locs))
	for _, l := range locs {
		if !listing.Matches(query, l.Name, l.Country) {
			continue
		}
		icon := weather.IconFor(l.Condition)
		e := Entry{Location: l, Icon: icon, Glyph: icon.Glyph()}
		if d, ok := s.distance(l); ok {
			e.DistanceKm = &d
		}
		out = append(out, e)
	}
	return out
}

func (s *Service) distance(l weather.Location) (float64, bool) {
	if s.home == nil || l.Coordinates == nil {
		return 0, false
	}
	_, km := haversine.Distance(
		haversine.Coord{Lat: s.home.Lat, Lon: s.home.Lng},
		haversine.Coord{Lat: l.Coordinates.Lat, Lon: l.Coordinates.Lng},
	)
	return math.Round(km), true
}
