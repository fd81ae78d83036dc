package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the scheduling flows.
type SchedulingMetrics struct {
	slotLoads      *prometheus.CounterVec
	staleDropped   prometheus.Counter
	bookings       *prometheus.CounterVec
	deletions      *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		slotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendei",
			Subsystem: "scheduling",
			Name:      "slot_load_total",
			Help:      "Total slot-availability loads",
		}, []string{"status"}),
		staleDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agendei",
			Subsystem: "scheduling",
			Name:      "stale_responses_dropped_total",
			Help:      "Slot responses dropped because a newer load superseded them",
		}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendei",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total booking submissions",
		}, []string{"status"}),
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendei",
			Subsystem: "scheduling",
			Name:      "deletions_total",
			Help:      "Total appointment deletions",
		}, []string{"status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agendei",
			Subsystem: "scheduling",
			Name:      "backend_latency_seconds",
			Help:      "Latency of appointments backend calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotLoads, m.staleDropped, m.bookings, m.deletions, m.backendLatency)
	return m
}

func (m *SchedulingMetrics) ObserveSlotLoad(status string) {
	if m == nil {
		return
	}
	m.slotLoads.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveStaleDrop() {
	if m == nil {
		return
	}
	m.staleDropped.Inc()
}

func (m *SchedulingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveDeletion(status string) {
	if m == nil {
		return
	}
	m.deletions.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveBackendLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.backendLatency.WithLabelValues(operation).Observe(seconds)
}
