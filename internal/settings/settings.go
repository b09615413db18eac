// Package settings holds the user preferences shown on the settings page.
// Values live in memory only.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnknownSetting is returned by Set for an unrecognised key.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidValue wraps values rejected by validation or parsing.
	ErrInvalidValue = errors.New("invalid setting value")
)

var validate = validator.New()

// Bag is the full set of preferences.
type Bag struct {
	TemperatureUnit   string `json:"temperatureUnit" yaml:"temperatureUnit" validate:"oneof=celsius fahrenheit kelvin"`
	WindUnit          string `json:"windUnit" yaml:"windUnit" validate:"oneof=kmh mph ms knots"`
	TimeFormat        string `json:"timeFormat" yaml:"timeFormat" validate:"oneof=12hour 24hour"`
	Notifications     bool   `json:"notifications" yaml:"notifications"`
	LocationServices  bool   `json:"locationServices" yaml:"locationServices"`
	DarkMode          bool   `json:"darkMode" yaml:"darkMode"`
	AutoRefresh       bool   `json:"autoRefresh" yaml:"autoRefresh"`
	RefreshInterval   int    `json:"refreshInterval" yaml:"refreshInterval" validate:"oneof=1 5 10 15 30"`
	PrecipitationUnit string `json:"precipitationUnit" yaml:"precipitationUnit" validate:"oneof=mm in"`
	PressureUnit      string `json:"pressureUnit" yaml:"pressureUnit" validate:"oneof=hpa inhg mb"`
}

// Defaults returns the preferences a fresh session starts with.
func Defaults() Bag {
	return Bag{
		TemperatureUnit:   "celsius",
		WindUnit:          "kmh",
		TimeFormat:        "24hour",
		Notifications:     true,
		LocationServices:  true,
		DarkMode:          false,
		AutoRefresh:       true,
		RefreshInterval:   5,
		PrecipitationUnit: "mm",
		PressureUnit:      "hpa",
	}
}

// Validate checks every field against its allowed values.
func (b Bag) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}

// Store keeps the current bag and notifies listeners on change.
type Store struct {
	mu        sync.RWMutex
	bag       Bag
	listeners []func(Bag)
}

// NewStore validates the initial bag.
func NewStore(initial Bag) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Store{bag: initial}, nil
}

// Get returns the current bag.
func (s *Store) Get() Bag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bag
}

// OnChange registers fn to run after every accepted change.
func (s *Store) OnChange(fn func(Bag)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Replace swaps the whole bag. An invalid bag leaves the store unchanged.
func (s *Store) Replace(b Bag) (Bag, error) {
	return s.update(func(cur *Bag) error {
		*cur = b
		return nil
	})
}

// Set updates a single preference from its textual value.
func (s *Store) Set(key, raw string) (Bag, error) {
	return s.update(func(b *Bag) error {
		return apply(b, key, raw)
	})
}

func (s *Store) update(mutate func(*Bag) error) (Bag, error) {
	s.mu.Lock()
	next := s.bag
	if err := mutate(&next); err != nil {
		cur := s.bag
		s.mu.Unlock()
		return cur, err
	}
	if err := next.Validate(); err != nil {
		cur := s.bag
		s.mu.Unlock()
		return cur, err
	}
	s.bag = next
	listeners := append(([]func(Bag))(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next, nil
}

func apply(b *Bag, key, raw string) error {
	switch key {
	case "temperatureUnit":
		b.TemperatureUnit = raw
	case "windUnit":
		b.WindUnit = raw
	case "timeFormat":
		b.TimeFormat = raw
	case "precipitationUnit":
		b.PrecipitationUnit = raw
	case "pressureUnit":
		b.PressureUnit = raw
	case "refreshInterval":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: refreshInterval %q", ErrInvalidValue, raw)
		}
		b.RefreshInterval = n
	case "notifications", "locationServices", "darkMode", "autoRefresh":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidValue, key, raw)
		}
		switch key {
		case "notifications":
			b.Notifications = v
		case "locationServices":
			b.LocationServices = v
		case "darkMode":
			b.DarkMode = v
		case "autoRefresh":
			b.AutoRefresh = v
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return nil
}
