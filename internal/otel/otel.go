package otel

import (
	"context"
	"log/slog"

	"github.com/corray333/cloud-kitchen/internal/jaeger"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

type OtelController struct {
	traceProvider *sdktrace.TracerProvider
}

// MustInitOtel installs the Jaeger-backed tracer provider when otel.enabled is set.
// Otherwise the global no-op provider stays in place.
func MustInitOtel(serviceName string) *OtelController {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !viper.GetBool("otel.enabled") {
		slog.Info("Tracing disabled")

		return &OtelController{}
	}

	if name := viper.GetString("otel.service_name"); name != "" && serviceName == "" {
		serviceName = name
	}

	jaegerExporter := jaeger.MustNewJaeger(viper.GetString("otel.endpoint"))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(jaegerExporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)

	otel.SetTracerProvider(tp)

	return &OtelController{
		traceProvider: tp,
	}
}

func (o *OtelController) Shutdown() error {
	if o.traceProvider == nil {
		return nil
	}

	return o.traceProvider.Shutdown(context.Background())
}
