// Package observability трассировка OpenTelemetry
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/ambient-footsteps/internal/logging"
)

// TracerName имя трассировщика движка
const TracerName = "github.com/annel0/ambient-footsteps"

// Tracer трассировщик из глобального провайдера. Пока InitTelemetry
// не вызван, спаны не записываются.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// InitTelemetry настраивает OTLP экспортер и устанавливает глобальный TracerProvider.
// Возвращает функцию shutdown, которую нужно вызвать при завершении приложения.
func InitTelemetry(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	// OTLP HTTP экспортер (по умолчанию localhost:4318)
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}
	return installProvider(ctx, serviceName, sdktrace.WithBatcher(exp))
}

// InitWithExporter ставит провайдер с произвольным экспортером (синхронная выгрузка)
func InitWithExporter(ctx context.Context, serviceName string, exp sdktrace.SpanExporter) (func(context.Context) error, error) {
	return installProvider(ctx, serviceName, sdktrace.WithSyncer(exp))
}

func installProvider(ctx context.Context, serviceName string, opt sdktrace.TracerProviderOption) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(opt, sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	logging.Info("OpenTelemetry инициализирован (service=%s)", serviceName)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}
