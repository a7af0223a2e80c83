package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Write operations counted by QuoteWritten.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Login outcomes counted by LoginAttempt.
const (
	LoginSuccess       = "success"
	LoginRejected      = "rejected"
	LoginNotConfigured = "not_configured"
	LoginBadRequest    = "bad_request"
)

// DomainMetrics are the business counters scraped from /-/metrics.
// A nil *DomainMetrics is valid and records nothing.
type DomainMetrics struct {
	quotesWritten *prometheus.CounterVec
	loginAttempts *prometheus.CounterVec
}

// NewDomainMetrics registers the counters with reg. Pass
// prometheus.DefaultRegisterer in the service and a fresh registry in tests.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	factory := promauto.With(reg)

	return &DomainMetrics{
		quotesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotevault",
			Name:      "quotes_written_total",
			Help:      "Successful quote writes by operation.",
		}, []string{"op"}),
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotevault",
			Name:      "login_attempts_total",
			Help:      "Admin login attempts by outcome.",
		}, []string{"outcome"}),
	}
}

// QuoteWritten counts one successful create, update or delete.
func (m *DomainMetrics) QuoteWritten(op string) {
	if m == nil {
		return
	}

	m.quotesWritten.WithLabelValues(op).Inc()
}

// LoginAttempt counts one login attempt with its outcome.
func (m *DomainMetrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}

	m.loginAttempts.WithLabelValues(outcome).Inc()
}
