package monitoring

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implementa service.SpinMetrics y el contador HTTP.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	Spins        prometheus.Counter
	WinsRecorded prometheus.Counter
	WinFailures  *prometheus.CounterVec
}

// New registra los contadores en reg (prometheus.DefaultRegisterer en los main,
// un registry propio en los tests).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		Spins: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spins_total",
				Help: "Completed spins (selection + recorded win)",
			},
		),
		WinsRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wins_recorded_total",
				Help: "Wins incremented in the store",
			},
		),
		WinFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "record_win_failures_total",
				Help: "Failed win increments by reason",
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(m.HTTPRequests, m.Spins, m.WinsRecorded, m.WinFailures)
	return m
}

func (m *Metrics) SpinCompleted()          { m.Spins.Inc() }
func (m *Metrics) WinRecorded()            { m.WinsRecorded.Inc() }
func (m *Metrics) WinFailed(reason string) { m.WinFailures.WithLabelValues(reason).Inc() }

func (m *Metrics) ObserveHTTP(method, route string, status int) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
