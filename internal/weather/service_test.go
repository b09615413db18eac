package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

// memStore is a minimal Store used to observe what the service records.
type memStore struct {
	records []Record
}

func (m *memStore) SaveRecord(rec Record) { m.records = append(m.records, rec) }

func (m *memStore) GetLatest(location string) (Record, error) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Snapshot.Location == location {
			return m.records[i], nil
		}
	}
	return Record{}, errors.New("not found")
}

func (m *memStore) GetRange(location string, from, to time.Time) ([]Record, error) {
	return m.records, nil
}

func TestPoolSourcePicksByIndex(t *testing.T) {
	src := NewPoolSource(testPool, &fixedRand{idx: []int{3, 0}})

	first, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := src.Fetch(context.Background())

	if first != testPool[3] || second != testPool[0] {
		t.Fatalf("unexpected picks %q, %q", first.Location, second.Location)
	}
}

func TestPoolSourceEmpty(t *testing.T) {
	src := NewPoolSource(nil, nil)
	if _, err := src.Fetch(context.Background()); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}

func TestPoolSourceIsolatedFromCaller(t *testing.T) {
	pool := append([]Snapshot(nil), testPool...)
	src := NewPoolSource(pool, &fixedRand{idx: []int{0}})
	pool[0].Location = "Mutated"

	got, _ := src.Fetch(context.Background())
	if got.Location != "New York" {
		t.Fatalf("expected pool copy to be unaffected, got %q", got.Location)
	}
}

func TestServiceRecordsFetchedSnapshots(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, NewPoolSource(testPool, &fixedRand{idx: []int{1}}))
	fixed := time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	snap, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := svc.GetLatest("Tokyo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Snapshot != snap || !rec.FetchedAt.Equal(fixed) {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestServiceDoesNotRecordFailures(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, &stubSource{err: errors.New("boom")})

	if _, err := svc.Fetch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(store.records) != 0 {
		t.Fatalf("expected no records, got %d", len(store.records))
	}
}

func TestSummarizeForecast(t *testing.T) {
	days := []ForecastDay{
		{High: 22, Low: 15, Condition: "Partly Cloudy", Precipitation: 20, Humidity: 65, WindSpeed: 15},
		{High: 25, Low: 18, Condition: "Sunny", Precipitation: 5, Humidity: 55, WindSpeed: 12},
		{High: 20, Low: 12, Condition: "Rainy", Precipitation: 80, Humidity: 85, WindSpeed: 20},
		{High: 26, Low: 19, Condition: "Sunny", Precipitation: 10, Humidity: 50, WindSpeed: 10},
	}

	got := SummarizeForecast(days)
	if got.Days != 4 || got.High != 26 || got.Low != 12 {
		t.Fatalf("unexpected extremes %+v", got)
	}
	if got.Condition != "Sunny" {
		t.Fatalf("expected majority condition Sunny, got %q", got.Condition)
	}
	if got.AvgHumidity != 63.75 || got.AvgPrecipitation != 28.75 {
		t.Fatalf("unexpected averages %+v", got)
	}
}

func TestSummarizeForecastTieKeepsEarliest(t *testing.T) {
	days := []ForecastDay{
		{Condition: "Cloudy"},
		{Condition: "Sunny"},
		{Condition: "sunny"},
		{Condition: "cloudy"},
	}
	if got := SummarizeForecast(days).Condition; got != "Cloudy" {
		t.Fatalf("expected earliest majority Cloudy, got %q", got)
	}
	if got := SummarizeForecast(nil); got.Days != 0 {
		t.Fatalf("expected empty summary, got %+v", got)
	}
}

func TestPrecipitationClass(t *testing.T) {
	cases := map[int]string{80: "heavy", 70: "heavy", 40: "moderate", 25: "light", 19: "none", 0: "none"}
	for chance, want := range cases {
		if got := PrecipitationClass(chance); got != want {
			t.Errorf("PrecipitationClass(%d) = %q, want %q", chance, got, want)
		}
	}
}
