// Package observability wires OpenTelemetry tracing and metrics for the
// scoring pipeline, with console, OTLP and Prometheus exporters selected by
// configuration.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumatch/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds the custom instruments for evaluation traffic.
type Metrics struct {
	EvaluationDuration metric.Float64Histogram
	EvaluationCount    metric.Int64Counter
	VerdictCount       metric.Int64Counter
	SimilarityRung     metric.Int64Counter
	BackendErrorCount  metric.Int64Counter
	RateLimitHits      metric.Int64Counter
}

// Manager owns the OpenTelemetry providers and their shutdown.
type Manager struct {
	cfg            config.ObservabilityConfig
	serviceVersion string
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewManager sets up tracing and metrics per configuration. A disabled
// configuration yields a manager whose methods are all no-ops.
func NewManager(cfg config.ObservabilityConfig, serviceVersion string) (*Manager, error) {
	m := &Manager{cfg: cfg, serviceVersion: serviceVersion}
	if !cfg.Enabled {
		return m, nil
	}

	res, err := m.buildResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.Tracing.Enabled {
		if err := m.initTracing(res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.Metrics.Enabled {
		if err := m.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Manager) buildResource() (*resource.Resource, error) {
	version := m.cfg.ServiceVersion
	if version == "" {
		version = m.serviceVersion
	}
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
}

func (m *Manager) initTracing(res *resource.Resource) error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case m.cfg.ConsoleOutput:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case m.cfg.OTLP.Enabled:
		exporter, err = m.createOTLPTraceExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.cfg.Tracing.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics(res *resource.Resource) error {
	readers, err := m.setupMetricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

func (m *Manager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if m.cfg.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(m.collectionInterval())))
	}

	if m.cfg.OTLP.Enabled {
		reader, err := m.createOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if m.cfg.Prometheus.Enabled {
		reader, mux, err := setupPrometheusExporter(m.cfg.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		readers = append(readers, reader)
		if err := startPrometheusServer(mux, m.cfg.Prometheus.Port); err != nil {
			return nil, fmt.Errorf("failed to start Prometheus server: %w", err)
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.cfg.ServiceName)
	m.metrics = &Metrics{}
	var err error

	m.metrics.EvaluationDuration, err = meter.Float64Histogram(
		"resumatch_evaluation_duration_seconds",
		metric.WithDescription("Time spent evaluating a resume against a job"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation duration metric: %w", err)
	}

	m.metrics.EvaluationCount, err = meter.Int64Counter(
		"resumatch_evaluations_total",
		metric.WithDescription("Total number of resume evaluations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation count metric: %w", err)
	}

	m.metrics.VerdictCount, err = meter.Int64Counter(
		"resumatch_verdicts_total",
		metric.WithDescription("Evaluation verdicts by category"),
	)
	if err != nil {
		return fmt.Errorf("failed to create verdict count metric: %w", err)
	}

	m.metrics.SimilarityRung, err = meter.Int64Counter(
		"resumatch_similarity_method_total",
		metric.WithDescription("Similarity computations by method used"),
	)
	if err != nil {
		return fmt.Errorf("failed to create similarity method metric: %w", err)
	}

	m.metrics.BackendErrorCount, err = meter.Int64Counter(
		"resumatch_backend_errors_total",
		metric.WithDescription("Total number of backend errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create backend error count metric: %w", err)
	}

	m.metrics.RateLimitHits, err = meter.Int64Counter(
		"resumatch_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance. Instruments are nil when metrics
// are disabled; recording helpers tolerate that.
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation.
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.cfg.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		m.cfg.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a tracer for the service.
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.cfg.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops all observability components.
func (m *Manager) Shutdown(ctx context.Context) error {
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RecordEvaluation records one completed evaluation.
func (m *Metrics) RecordEvaluation(ctx context.Context, duration time.Duration, verdict, similarityMethod string, success bool) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	if m.EvaluationDuration != nil {
		m.EvaluationDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if m.EvaluationCount != nil {
		m.EvaluationCount.Add(ctx, 1, attrs)
	}
	if m.VerdictCount != nil && verdict != "" {
		m.VerdictCount.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", verdict)))
	}
	if m.SimilarityRung != nil && similarityMethod != "" {
		m.SimilarityRung.Add(ctx, 1, metric.WithAttributes(attribute.String("method", similarityMethod)))
	}
}

// RecordBackendError counts a backend failure for the named operation.
func (m *Metrics) RecordBackendError(ctx context.Context, operation string) {
	if m.BackendErrorCount != nil {
		m.BackendErrorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

// RecordRateLimitHit counts a rejected request.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, key string) {
	if m.RateLimitHits != nil {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
	}
}

type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error { return nil }

func (m *Manager) createOTLPTraceExporter() (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(context.Background(), opts...)
}

func (m *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.collectionInterval())), nil
}

func (m *Manager) collectionInterval() time.Duration {
	if m.cfg.Metrics.CollectionInterval > 0 {
		return m.cfg.Metrics.CollectionInterval
	}
	return 15 * time.Second
}
