package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

var (
	// Log is the app global logger
	Log = slog.Default()
)

// InitLogger initializes the app global logger.
// Records go to stdout and, when exporterEndpoint is set, to an OTLP log exporter as well.
func InitLogger(serviceName, serviceVersion, serviceEnvironment, exporterEndpoint string, level slog.Level) (func(ctx context.Context) error, error) {

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if exporterEndpoint == "" {
		Log = slog.New(textHandler)
		return func(ctx context.Context) error { return nil }, nil
	}

	logExporter, err := otlploggrpc.New(context.Background(),
		otlploggrpc.WithEndpoint(exporterEndpoint),
		otlploggrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to otlploggrpc.New: %w", err)
	}

	lp := log.NewLoggerProvider(
		log.WithProcessor(
			log.NewBatchProcessor(logExporter),
		),
		log.WithResource(resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.DeploymentEnvironmentNameKey.String(serviceEnvironment))),
	)

	var slogHandler slog.Handler = otelslog.NewHandler("github.com/ogero/stremio-lastvideos",
		otelslog.WithLoggerProvider(lp))

	if serviceEnvironment == "lcl" || serviceEnvironment == "dk" {
		slogHandler = slogmulti.Fanout(
			slogHandler,
			textHandler,
		)
	}

	Log = slog.New(slogHandler)

	return lp.Shutdown, nil
}
