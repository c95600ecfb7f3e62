package observability

import (
	"context"

	"github.com/aretw0/umlweb/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by store hooks.
type Metrics struct {
	Mutations  *prometheus.CounterVec
	SaveErrors *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umlweb_mutations_total",
				Help: "Total number of persisted project mutations",
			},
			[]string{"op"},
		),
		SaveErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umlweb_save_errors_total",
				Help: "Total number of mutations rejected because the project could not be saved",
			},
			[]string{"op"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "umlweb_mutation_duration_seconds",
				Help:    "Duration of store mutations including persistence",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Mutations, m.SaveErrors, m.Duration)
	}
	return m
}

// Hooks returns store hooks recording into m.
func (m *Metrics) Hooks() store.Hooks {
	return store.Hooks{
		OnMutation: func(_ context.Context, e *store.MutationEvent) {
			m.Mutations.WithLabelValues(string(e.Op)).Inc()
			m.Duration.WithLabelValues(string(e.Op)).Observe(e.Duration.Seconds())
		},
		OnSaveError: func(_ context.Context, e *store.MutationEvent, _ error) {
			m.SaveErrors.WithLabelValues(string(e.Op)).Inc()
			m.Duration.WithLabelValues(string(e.Op)).Observe(e.Duration.Seconds())
		},
	}
}
