package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "content_rotation"

// Prometheus implements Recorder with Prometheus counters.
type Prometheus struct {
	generated   *prometheus.CounterVec
	published   prometheus.Counter
	assignments prometheus.Counter
	shortfall   *prometheus.CounterVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the collectors on reg, or on the default
// registerer when reg is nil.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "generated_total",
			Help:      "Draft plans generated by distribution mode.",
		}, []string{"mode"}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "published_total",
			Help:      "Plans published.",
		}),
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "assignments_created_total",
			Help:      "Assignment rows written by publishes.",
		}),
		shortfall: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "shortfall_slots_total",
			Help:      "Slots left unfilled at generation time by category.",
		}, []string{"category"}),
	}
	for _, c := range []prometheus.Collector{p.generated, p.published, p.assignments, p.shortfall} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) PlanGenerated(mode string) { p.generated.WithLabelValues(mode).Inc() }

func (p *Prometheus) PlanPublished() { p.published.Inc() }

func (p *Prometheus) AssignmentsCreated(n int) {
	if n > 0 {
		p.assignments.Add(float64(n))
	}
}

func (p *Prometheus) Shortfall(category string, missing int) {
	if missing > 0 {
		p.shortfall.WithLabelValues(category).Add(float64(missing))
	}
}
