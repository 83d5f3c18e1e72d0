package mathup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts proof steps. A nil *Metrics records nothing.
type Metrics struct {
	rules *prometheus.CounterVec
	atoms prometheus.Histogram
	depth prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: rule, outcome (accepted, rejected)
		rules: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathup",
			Name:      "rule_applications_total",
			Help:      "Inference rule applications by outcome",
		}, []string{"rule", "outcome"}),
		atoms: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mathup",
			Name:      "tautology_atoms",
			Help:      "Distinct propositional atoms per tautology check",
			Buckets:   []float64{1, 2, 4, 8, 12, 16, 24, 32, 64},
		}),
		depth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "mathup",
			Name:      "scope_depth",
			Help:      "Current assumption block depth",
		}),
	}
}

func (m *Metrics) observeRule(rule string, accepted bool) {
	if m == nil {
		return
	}
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	m.rules.WithLabelValues(rule, outcome).Inc()
}

func (m *Metrics) observeAtoms(n int) {
	if m == nil {
		return
	}
	m.atoms.Observe(float64(n))
}

func (m *Metrics) setDepth(d int) {
	if m == nil {
		return
	}
	m.depth.Set(float64(d))
}
