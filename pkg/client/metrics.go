package client

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts API calls per endpoint.
type Metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todolist_api_requests_total",
			Help: "Total number of to-do API calls by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todolist_api_errors_total",
			Help: "Total number of failed to-do API calls by endpoint.",
		}, []string{"endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.errors)
	}
	return m
}

func (m *Metrics) observe(endpoint string, code int, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	if err != nil {
		m.errors.WithLabelValues(endpoint).Inc()
	}
}
