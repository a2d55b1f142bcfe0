package schedule

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for booking and cancellation outcomes.
type Metrics struct {
	bookings      *prometheus.CounterVec
	cancellations *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "booking_total",
			Help:      "Appointment booking attempts by result",
		}, []string{"result"}),
		cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "cancellations_total",
			Help:      "Appointments moved to cancelled, by cause",
		}, []string{"cause"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookings, m.cancellations)
	return m
}

// ObserveBooking records a booking attempt; err decides the result label.
func (m *Metrics) ObserveBooking(err error) {
	if m == nil {
		return
	}
	result := "created"
	if err != nil {
		result = "error"
		if k := KindOf(err); k != 0 {
			result = k.String()
		}
	}
	m.bookings.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCancellations(cause string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cancellations.WithLabelValues(cause).Add(float64(n))
}
