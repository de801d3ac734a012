// Package telemetry exposes request and provider-call metrics through an
// OpenTelemetry meter backed by a Prometheus exporter.
package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
)

const meterName = "github.com/ielts-speaking/backend"

// Request outcomes recorded on the requests counter.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeTimeout     = "timeout"
	OutcomeUpstream    = "upstream_error"
)

// Setup builds a meter provider exporting to the default Prometheus
// registry and returns it with the /metrics handler. If the exporter
// cannot be created the provider still works and the handler is nil.
func Setup(ctx context.Context, serviceName string, logger *slog.Logger) (*sdkmetric.MeterProvider, http.Handler, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, nil, err
	}

	exporter, err := prometheus.New()
	if err != nil {
		logger.Warn("failed to initialize prometheus exporter", slog.String("error", err.Error()))
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res)), nil, nil
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	logger.Info("telemetry initialized", slog.String("exporter", "prometheus"))
	return mp, promhttp.Handler(), nil
}

// Metrics records what the generation service does.
type Metrics struct {
	requests    metric.Int64Counter
	llmDuration metric.Float64Histogram
	llmFailures metric.Int64Counter
}

// NewMetrics creates the instruments on mp's meter.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter("ielts.generate.requests",
		metric.WithDescription("Generation requests by outcome"))
	if err != nil {
		return nil, err
	}

	llmDuration, err := meter.Float64Histogram("ielts.llm.duration",
		metric.WithDescription("Provider call duration including queue wait"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	llmFailures, err := meter.Int64Counter("ielts.llm.failures",
		metric.WithDescription("Failed provider calls"))
	if err != nil {
		return nil, err
	}

	return &Metrics{requests: requests, llmDuration: llmDuration, llmFailures: llmFailures}, nil
}

// RecordRequest counts one finished /generate request.
func (m *Metrics) RecordRequest(ctx context.Context, variant, outcome string) {
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("variant", variant),
		attribute.String("outcome", outcome),
	))
}

// RecordCall records one provider call as seen by the waiting request.
func (m *Metrics) RecordCall(ctx context.Context, provider, op string, d time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("op", op),
	)
	m.llmDuration.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		m.llmFailures.Add(ctx, 1, attrs)
	}
}
