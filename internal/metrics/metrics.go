// Package metrics exposes Prometheus instruments for the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const namespace = "weather_dashboard"

// Metrics bundles the instruments and the registry they are registered in.
type Metrics struct {
	Registry *prometheus.Registry

	FetchesTotal   *prometheus.CounterVec
	RefreshesTotal *prometheus.CounterVec
	Locations      prometheus.Gauge
	Temperature    *prometheus.GaugeVec
}

// New registers every instrument in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Settled weather fetch cycles by outcome.",
		}, []string{"outcome"}),
		RefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Refresh requests by trigger.",
		}, []string{"trigger"}),
		Locations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "saved_locations",
			Help:      "Number of saved locations.",
		}),
		Temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_temperature_celsius",
			Help:      "Temperature of the most recent snapshot.",
		}, []string{"location"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FetchesTotal,
		m.RefreshesTotal,
		m.Locations,
		m.Temperature,
	)
	return m
}

// ObserveResult records a settled fetch cycle.
func (m *Metrics) ObserveResult(res weather.Result) {
	switch res.Phase() {
	case weather.PhaseFailed:
		m.FetchesTotal.WithLabelValues("failed").Inc()
	case weather.PhaseReady:
		m.FetchesTotal.WithLabelValues("ready").Inc()
		if res.Data != nil {
			m.Temperature.Reset()
			m.Temperature.WithLabelValues(res.Data.Location).Set(res.Data.Temperature)
		}
	}
}

// Refreshed counts a refresh request.
func (m *Metrics) Refreshed(trigger string) {
	m.RefreshesTotal.WithLabelValues(trigger).Inc()
}

// SetLocations records the saved locations count.
func (m *Metrics) SetLocations(n int) {
	m.Locations.Set(float64(n))
}
