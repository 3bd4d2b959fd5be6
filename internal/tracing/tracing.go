// Package tracing builds the OpenTelemetry tracer provider used by the HTTP
// gateway.
package tracing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/milad/dwreader/internal/config"
	"github.com/milad/dwreader/internal/logger"
)

// New returns a tracer provider for cfg, or nil when tracing is disabled.
func New(ctx context.Context, cfg config.TracingConfig, log *logger.Logger) (*sdktrace.TracerProvider, error) {
	exporter, err := buildExporter(ctx, cfg)
	if err != nil || exporter == nil {
		return nil, err
	}

	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "dwreader"
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(semconv.ServiceNameKey.String(name)))
	if err != nil {
		log.Warn("otel resource merge failed (continuing)", "error", err)
		res = resource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.SampleRatio)))),
		sdktrace.WithResource(res),
	)
	log.Info("otel tracing initialized", "service", name, "exporter", cfg.Exporter, "endpoint", cfg.Endpoint)
	return tp, nil
}

// Install makes tp the global provider and propagates W3C trace context and
// baggage. It returns tp's shutdown func.
func Install(tp *sdktrace.TracerProvider) func(context.Context) error {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}

func buildExporter(ctx context.Context, cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Exporter)) {
	case "", config.TracingNone:
		return nil, nil
	case config.TracingStdout:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	case config.TracingOTLP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	return nil, fmt.Errorf("unknown tracing exporter %q", cfg.Exporter)
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
