// Package telemetry provides Prometheus metrics and a tracer handle
// for the classification service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "classifier"

// Metrics holds all classifier Prometheus metrics.
type Metrics struct {
	// ReviewsClassified counts verdicts by deciding stage and classification.
	ReviewsClassified *prometheus.CounterVec
	// ClassificationDuration tracks end-to-end review classification time.
	ClassificationDuration prometheus.Histogram
	// RuleMatches counts deterministic rule hits by rule name.
	RuleMatches *prometheus.CounterVec
	// InferenceFailures counts review inference calls that surfaced an error.
	InferenceFailures prometheus.Counter
	// IntakeRequests counts product intake outcomes (genuine, counterfeit, error).
	IntakeRequests *prometheus.CounterVec
}

// Provider wraps the telemetry providers.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(prometheus.DefaultRegisterer),
		gatherer: prometheus.DefaultGatherer,
	}
}

// NewTestProvider initializes telemetry against a private registry so
// tests can create providers without duplicate registration panics.
func NewTestProvider() *Provider {
	reg := prometheus.NewRegistry()
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(reg),
		gatherer: reg,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics
// endpoint, serving the registry this provider's metrics live in.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func initMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReviewsClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifier_reviews_classified_total",
			Help: "Review verdicts by deciding stage and classification",
		}, []string{"stage", "classification"}),

		ClassificationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "classifier_review_duration_seconds",
			Help:    "Time to classify a single review",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),

		RuleMatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifier_rule_matches_total",
			Help: "Deterministic rule hits by rule name",
		}, []string{"rule"}),

		InferenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "classifier_inference_failures_total",
			Help: "Review inference calls that failed at the transport",
		}),

		IntakeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifier_intake_requests_total",
			Help: "Product intake outcomes (genuine, counterfeit, error)",
		}, []string{"outcome"}),
	}
}
