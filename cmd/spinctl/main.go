package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/cli"
	"github.com/jose-valero/spinboard/internal/infra/config"
	"github.com/jose-valero/spinboard/internal/infra/logger"
	"github.com/jose-valero/spinboard/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()

	root := cli.NewRootCommand(open)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func open(ctx context.Context, migrate bool) (*cli.Services, func() error, error) {
	noop := func() error { return nil }

	cfg, err := config.Load()
	if err != nil {
		return nil, noop, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, noop, err
	}

	store, closeStore, err := storage.OpenBackend(ctx, cfg, migrate)
	if err != nil {
		return nil, noop, err
	}
	return &cli.Services{
		Driver: cfg.StoreDriver,
		Spin: service.NewSpinService(store,
			service.WithLogger(log),
			service.WithSpinAttempts(cfg.SpinAttempts),
		),
		Employees: service.NewEmployeeService(store, log),
	}, closeStore, nil
}
