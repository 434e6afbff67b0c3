package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for scoring and outreach.
type LeadMetrics struct {
	scoredTotal   *prometheus.CounterVec
	outreachTotal *prometheus.CounterVec
	runsTotal     prometheus.Counter
}

// NewLeadMetrics registers the collectors on reg, or on the default
// registerer when reg is nil.
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		scoredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "easyfinder",
			Subsystem: "leads",
			Name:      "scored_total",
			Help:      "Total leads scored during processing runs",
		}, []string{"priority"}),
		outreachTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "easyfinder",
			Subsystem: "outreach",
			Name:      "total",
			Help:      "Outreach attempts by outcome",
		}, []string{"status"}),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "easyfinder",
			Subsystem: "leads",
			Name:      "process_runs_total",
			Help:      "Completed processing runs",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.scoredTotal, m.outreachTotal, m.runsTotal)
	return m
}

// ObserveScored counts one scored lead under its priority tier.
func (m *LeadMetrics) ObserveScored(priority string) {
	if m == nil {
		return
	}
	m.scoredTotal.WithLabelValues(priority).Inc()
}

// ObserveOutreach records status as one of "sent", "failed" or "skipped".
func (m *LeadMetrics) ObserveOutreach(status string) {
	if m == nil {
		return
	}
	m.outreachTotal.WithLabelValues(status).Inc()
}

// ObserveRun counts one completed processing run.
func (m *LeadMetrics) ObserveRun() {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
}
