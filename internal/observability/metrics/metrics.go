package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking and lead flows.
type BookingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	leadsTotal        *prometheus.CounterVec
	crmLatency        *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showroom",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Total availability lookups",
		}, []string{"status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showroom",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total showroom booking submissions",
		}, []string{"status"}),
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showroom",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead form submissions",
		}, []string{"source", "status"}),
		crmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "showroom",
			Subsystem: "crm",
			Name:      "request_latency_seconds",
			Help:      "Latency of upstream CRM calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.bookingsTotal, m.leadsTotal, m.crmLatency)
	return m
}

func (m *BookingMetrics) ObserveAvailability(status string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveLead(source, status string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(source, status).Inc()
}

func (m *BookingMetrics) ObserveCRMLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.crmLatency.WithLabelValues(operation).Observe(seconds)
}
