package util

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const serviceName = "price-crawler"

// Span attribute keys shared by the crawler packages
const (
	AttrBrand     = attribute.Key("gpa.brand")
	AttrStoreID   = attribute.Key("gpa.store_id")
	AttrProductID = attribute.Key("gpa.product_id")
	AttrURL       = attribute.Key("gpa.url")
	AttrSite      = attribute.Key("crawler.site")
	AttrRunID     = attribute.Key("crawler.run_id")
)

var tracer trace.Tracer

// InitTracer exports spans to Jaeger. Every span carries the run id and
// environment as resource attributes.
func InitTracer(jaegerEndpoint, env, runID string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(
		jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(env),
			AttrRunID.String(runID),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	UseTracerProvider(tp)

	GetLogger().Info("Tracer initialized",
		zap.String("endpoint", jaegerEndpoint),
		zap.String("run_id", runID))
	return tp, nil
}

// UseTracerProvider installs tp as the global provider and crawler tracer
func UseTracerProvider(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(serviceName)
}

// GetTracer returns the global tracer
func GetTracer() trace.Tracer {
	if tracer == nil {
		tracer = otel.Tracer(serviceName)
	}
	return tracer
}

// StartSpan starts a new span with optional attributes
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// EndSpan records err on the span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
