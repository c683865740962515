package observability

import (
	"context"
	"log"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter provider. Instruments are
// exported through the default Prometheus registry alongside the promauto
// collectors, so a single /metrics endpoint serves both.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	sweepCounter  otelmetric.Int64Counter
	sweepDuration otelmetric.Float64Histogram
	submissions   otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	return NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
}

// NewWithRegisterer exports into reg instead of the default registry.
func NewWithRegisterer(serviceName string, reg promclient.Registerer) *Observability {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sweepCounter, _ := meter.Int64Counter(
		"reminder_sweeps",
		otelmetric.WithDescription("Reminder sweeps run"),
	)

	sweepDuration, _ := meter.Float64Histogram(
		"reminder_sweep_duration",
		otelmetric.WithDescription("Reminder sweep duration"),
		otelmetric.WithUnit("ms"),
	)

	submissions, _ := meter.Int64Counter(
		"intake_attempts",
		otelmetric.WithDescription("Quiz submissions handled"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		sweepCounter:  sweepCounter,
		sweepDuration: sweepDuration,
		submissions:   submissions,
	}
}

// RecordSweep records one sweep. status is "ok" or "degraded".
func (o *Observability) RecordSweep(ctx context.Context, duration time.Duration, status string) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	if o.sweepCounter != nil {
		o.sweepCounter.Add(ctx, 1, attrs)
	}
	if o.sweepDuration != nil {
		o.sweepDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// RecordSubmission records one intake attempt by result ("qualified",
// "rate_limited", "already_scheduled", ...).
func (o *Observability) RecordSubmission(ctx context.Context, result string) {
	if o == nil || o.submissions == nil {
		return
	}
	o.submissions.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("result", result)))
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
