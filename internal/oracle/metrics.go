package oracle

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts trials and violations and times solver calls.
type Metrics struct {
	trials     *prometheus.CounterVec
	violations *prometheus.CounterVec
	solver     *prometheus.HistogramVec
}

// NewMetrics creates the oracle collectors and registers them on reg.
// Passing a fresh prometheus.NewRegistry keeps runs isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smoracle_trials_total",
				Help: "Total number of trials executed.",
			},
			[]string{"oracle"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smoracle_violations_total",
				Help: "Total number of violations detected, by kind.",
			},
			[]string{"oracle", "kind"},
		),
		solver: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smoracle_solver_duration_seconds",
				Help:    "Duration of solver invocations.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"oracle"},
		),
	}
	reg.MustRegister(m.trials, m.violations, m.solver)
	return m
}

func (m *Metrics) observeTrial(oracle string, solverTime time.Duration) {
	if m == nil {
		return
	}
	m.trials.WithLabelValues(oracle).Inc()
	m.solver.WithLabelValues(oracle).Observe(solverTime.Seconds())
}

func (m *Metrics) observeViolation(oracle string, kind Kind) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(oracle, string(kind)).Inc()
}
