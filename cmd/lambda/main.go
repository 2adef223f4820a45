package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jose-valero/spinboard/internal/adapters/lambdaapi"
	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/infra/config"
	"github.com/jose-valero/spinboard/internal/infra/logger"
	"github.com/jose-valero/spinboard/internal/infra/storage"
	"github.com/jose-valero/spinboard/internal/infra/telemetry"
)

// Las migraciones las corre `spinctl migrate` en el deploy; acá sólo abrimos.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	h, cleanup, err := newHandler(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("lambda init", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer cleanup()

	lambda.Start(h.Handle)
}

// newHandler arma tracing, store y servicio. En lambda no hay scrape de /metrics, así que
// la observabilidad va por spans (telemetry) y logs.
func newHandler(ctx context.Context, cfg config.Config, log *zap.Logger) (*lambdaapi.Handler, func(), error) {
	shutdownTracing, err := telemetry.Setup(ctx, "spinboard-lambda", cfg.OTELEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("otel setup: %w", err)
	}

	store, closeStore, err := storage.OpenBackend(ctx, cfg, false)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	spinSvc := service.NewSpinService(store,
		service.WithLogger(log),
		service.WithSpinAttempts(cfg.SpinAttempts),
	)
	cleanup := func() {
		_ = closeStore()
		_ = shutdownTracing(context.Background())
	}
	return lambdaapi.New(spinSvc, log), cleanup, nil
}
