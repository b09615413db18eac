// Package search answers location queries from the popular locations list.
package search

import (
	"unicode"
	"unicode/utf8"

	"github.com/i474232898/weather-dashboard/internal/listing"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Queries shorter than this never get sample results appended.
const minSampleQueryLen = 3

// Hit is a search result annotated for display.
type Hit struct {
	weather.SearchResult
	Icon  weather.Icon `json:"icon"`
	Glyph string       `json:"glyph"`
}

// Service searches the popular locations list.
type Service struct {
	popular *listing.List[weather.SearchResult]
	recent  []string
}

// NewService seeds the popular list and the recent searches.
func NewService(popular []weather.SearchResult, recent []string) *Service {
	return &Service{
		popular: listing.New(popular),
		recent:  append([]string(nil), recent...),
	}
}

// Search returns popular entries whose name, country or region contain the
// query, followed by two sample entries once the query is at least three
// characters long. The empty query yields no results.
func (s *Service) Search(query string) []weather.SearchResult {
	if query == "" {
		return []weather.SearchResult{}
	}

	results := s.popular.Filter(func(r weather.SearchResult) bool {
		return listing.Matches(query, r.Name, r.Country, r.Region)
	})

	if utf8.RuneCountInString(query) >= minSampleQueryLen {
		results = append(results,
			weather.SearchResult{
				ID:          "100",
				Name:        capitalize(query),
				Country:     "Sample Country",
				Region:      "Sample Region",
				Temperature: 20,
				Condition:   "Clear",
			},
			weather.SearchResult{
				ID:          "101",
				Name:        query + " City",
				Country:     "Example Country",
				Region:      "Example State",
				Temperature: 23,
				Condition:   "Partly Cloudy",
			},
		)
	}
	return results
}

// Find looks a result up by id among what Search would return for query.
func (s *Service) Find(query, id string) (weather.SearchResult, bool) {
	for _, r := range s.Search(query) {
		if r.ID == id {
			return r, true
		}
	}
	if r, ok := s.popular.Get(id); ok {
		return r, true
	}
	return weather.SearchResult{}, false
}

// Popular returns the static popular locations.
func (s *Service) Popular() []weather.SearchResult {
	return s.popular.Items()
}

// Recent returns the static recent searches.
func (s *Service) Recent() []string {
	return append([]string(nil), s.recent...)
}

// Annotate attaches icons to results.
func Annotate(results []weather.SearchResult) []Hit {
	out := make([]Hit, 0, len(results))
	for _, r := range results {
		icon := weather.IconFor(r.Condition)
		out = append(out, Hit{SearchResult: r, Icon: icon, Glyph: icon.Glyph()})
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
