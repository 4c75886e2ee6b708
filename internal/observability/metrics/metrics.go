package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics provides Prometheus-based metrics for registry and retrain
// operations. A nil *Metrics is valid and records nothing, so components can
// run without observability wired in (tests, one-shot CLI commands).
type Metrics struct {
	logger   *logrus.Logger
	registry *prometheus.Registry

	registrationsTotal *prometheus.CounterVec
	promotionsTotal    *prometheus.CounterVec
	rollbacksTotal     prometheus.Counter
	guardrailVerdicts  *prometheus.CounterVec
	integrityFailures  prometheus.Counter
	trainingDuration   prometheus.Histogram
	retrainCyclesTotal *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered on a private
// registry.
func New(namespace string, logger *logrus.Logger) *Metrics {
	if namespace == "" {
		namespace = "modelreg"
	}
	if logger == nil {
		logger = logrus.New()
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		logger:   logger,
		registry: registry,
		registrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Model versions registered, by resulting status",
		}, []string{"status"}),
		promotionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_total",
			Help:      "Champion promotions, by trigger (manual, retrain, forced, rollback)",
		}, []string{"trigger"}),
		rollbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollbacks_total",
			Help:      "Champion rollbacks performed",
		}),
		guardrailVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guardrail_verdicts_total",
			Help:      "Guardrail comparison outcomes",
		}, []string{"verdict"}),
		integrityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_failures_total",
			Help:      "Artifact integrity checks that found a hash mismatch",
		}),
		trainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_duration_seconds",
			Help:      "Wall-clock duration of external training step invocations",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		retrainCyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrain_cycles_total",
			Help:      "Retrain cycles completed, by terminal state",
		}, []string{"state"}),
	}

	registry.MustRegister(
		m.registrationsTotal,
		m.promotionsTotal,
		m.rollbacksTotal,
		m.guardrailVerdicts,
		m.integrityFailures,
		m.trainingDuration,
		m.retrainCyclesTotal,
	)

	return m
}

// Handler exposes the metrics registry over HTTP for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry, for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IncRegistration(status string) {
	if m == nil {
		return
	}
	m.registrationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncPromotion(trigger string) {
	if m == nil {
		return
	}
	m.promotionsTotal.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncRollback() {
	if m == nil {
		return
	}
	m.rollbacksTotal.Inc()
}

func (m *Metrics) IncGuardrailVerdict(approved bool) {
	if m == nil {
		return
	}
	verdict := "approved"
	if !approved {
		verdict = "rejected"
	}
	m.guardrailVerdicts.WithLabelValues(verdict).Inc()
}

func (m *Metrics) IncIntegrityFailure() {
	if m == nil {
		return
	}
	m.integrityFailures.Inc()
}

func (m *Metrics) ObserveTrainingDuration(seconds float64) {
	if m == nil {
		return
	}
	m.trainingDuration.Observe(seconds)
}

func (m *Metrics) IncRetrainCycle(state string) {
	if m == nil {
		return
	}
	m.retrainCyclesTotal.WithLabelValues(state).Inc()
}
