// Package metrics provides OpenTelemetry metrics instrumentation with Prometheus export.
// Supports recovery business metrics and HTTP request metrics for observability.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider owns the meter provider and the private Prometheus registry it exports to.
// The registry also carries Go runtime and process collectors so a scrape shows the
// service's own health next to recovery metrics.
type Provider struct {
	namespace     string
	meterProvider *metric.MeterProvider
	registry      *prometheus.Registry
}

// NewProvider creates a metrics provider. Every instrument created through it is exposed
// with the namespace prefix (e.g., "posrecovery_recovery_passes_total").
// Returns error if the exporter or the runtime collectors cannot be registered.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	return &Provider{
		namespace:     namespace,
		meterProvider: metric.NewMeterProvider(metric.WithReader(exporter)),
		registry:      registry,
	}, nil
}

// Namespace returns the metric name prefix this provider was created with.
func (p *Provider) Namespace() string {
	return p.namespace
}

// Handler returns an HTTP handler that serves metrics in Prometheus exposition format.
// The metrics server mounts it at /metrics.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the OpenTelemetry meter provider for creating meters.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// ObserveGauge registers "{namespace}_{name}" as a gauge whose value is read from observe
// at scrape time. observe must be cheap and safe for concurrent use.
func (p *Provider) ObserveGauge(name, description string, observe func() int64) error {
	meter := p.meterProvider.Meter(p.namespace)
	gauge, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_%s", p.namespace, name),
		otelmetric.WithDescription(description),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s gauge: %w", name, err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o otelmetric.Observer) error {
		o.ObserveInt64(gauge, observe())
		return nil
	}, gauge)
	if err != nil {
		return fmt.Errorf("failed to register %s gauge callback: %w", name, err)
	}
	return nil
}

// Shutdown flushes pending metrics and releases the meter provider.
// Called by the container after the HTTP servers have stopped.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}

