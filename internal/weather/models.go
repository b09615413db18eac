package weather

import (
	"time"
)

// Snapshot is one immutable weather record for a single location at the
// moment it was fetched. No field is validated.
type Snapshot struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Condition   string  `json:"condition" yaml:"condition"`
	Humidity    float64 `json:"humidity" yaml:"humidity"`
	WindSpeed   float64 `json:"windSpeed" yaml:"windSpeed"` // km/h
	Location    string  `json:"location" yaml:"location"`
	Description string  `json:"description" yaml:"description"`
}

// Record is a resolved snapshot together with the time it was fetched.
type Record struct {
	Snapshot  Snapshot  `json:"snapshot"`
	FetchedAt time.Time `json:"fetchedAt"` // always UTC
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Location is an entry of the saved locations list.
type Location struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Country     string       `json:"country" yaml:"country"`
	IsFavorite  bool         `json:"isFavorite" yaml:"isFavorite"`
	Temperature float64      `json:"temperature" yaml:"temperature"`
	Condition   string       `json:"condition" yaml:"condition"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// Key returns the identifier used to address the location in lists.
func (l Location) Key() string {
	return l.ID
}

// SearchResult is a single hit of a location search.
type SearchResult struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Country     string  `json:"country" yaml:"country"`
	Region      string  `json:"region" yaml:"region"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Condition   string  `json:"condition" yaml:"condition"`
	IsPopular   bool    `json:"isPopular,omitempty" yaml:"isPopular,omitempty"`
}

func (r SearchResult) Key() string {
	return r.ID
}

// ForecastDay is one day of the multi-day forecast.
// Precipitation is a chance in percent.
type ForecastDay struct {
	Date          string  `json:"date" yaml:"date"`
	DayName       string  `json:"dayName" yaml:"dayName"`
	High          float64 `json:"high" yaml:"high"`
	Low           float64 `json:"low" yaml:"low"`
	Condition     string  `json:"condition" yaml:"condition"`
	Precipitation int     `json:"precipitation" yaml:"precipitation"`
	Humidity      float64 `json:"humidity" yaml:"humidity"`
	WindSpeed     float64 `json:"windSpeed" yaml:"windSpeed"`
}

// HourlyForecast is one hour of the intraday forecast.
type HourlyForecast struct {
	Time          string  `json:"time" yaml:"time"`
	Temperature   float64 `json:"temperature" yaml:"temperature"`
	Condition     string  `json:"condition" yaml:"condition"`
	Precipitation int     `json:"precipitation" yaml:"precipitation"`
}

// ForecastSummary condenses a multi-day forecast into a single overview.
type ForecastSummary struct {
	Days             int     `json:"days"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	AvgHumidity      float64 `json:"avgHumidity"`
	AvgWindSpeed     float64 `json:"avgWindSpeed"`
	AvgPrecipitation float64 `json:"avgPrecipitation"`
	Condition        string  `json:"condition"`
}
