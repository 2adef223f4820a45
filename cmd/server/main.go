package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	discordrouter "github.com/jose-valero/spinboard/internal/adapters/discord"
	"github.com/jose-valero/spinboard/internal/adapters/httpapi"
	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/infra/config"
	"github.com/jose-valero/spinboard/internal/infra/logger"
	"github.com/jose-valero/spinboard/internal/infra/monitoring"
	"github.com/jose-valero/spinboard/internal/infra/storage"
	"github.com/jose-valero/spinboard/internal/infra/telemetry"
)

// deps: lo que main inyecta y los tests reemplazan.
type deps struct {
	registerer  prometheus.Registerer
	gatherer    prometheus.Gatherer
	openDiscord func(token string) (*discordgo.Session, error)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must(cfg.LogLevel, cfg.LogFormat)
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	err = run(ctx, cfg, log, deps{
		registerer:  prometheus.DefaultRegisterer,
		gatherer:    prometheus.DefaultGatherer,
		openDiscord: openDiscord,
	})
	stop()
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("bye")
	_ = log.Sync()
}

// run levanta todo y bloquea hasta que ctx se cancela. Cualquier error de arranque vuelve
// por acá, así los defers (store, tracing, discord) corren siempre.
func run(ctx context.Context, cfg config.Config, log *zap.Logger, d deps) error {
	shutdownTracing, err := telemetry.Setup(ctx, "spinboard", cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Store
	store, closeStore, err := storage.OpenBackend(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("open store (%s): %w", cfg.StoreDriver, err)
	}
	defer func() { _ = closeStore() }()
	log.Info("✅ store listo", zap.String("driver", cfg.StoreDriver))

	// Services
	metrics := monitoring.New(d.registerer)
	spinSvc := service.NewSpinService(store,
		service.WithMetrics(metrics),
		service.WithLogger(log),
		service.WithSpinAttempts(cfg.SpinAttempts),
	)
	empSvc := service.NewEmployeeService(store, log)

	if cfg.DiscordEnabled() {
		s, err := d.openDiscord(cfg.DiscordToken)
		if err != nil {
			return fmt.Errorf("discord: %w", err)
		}
		defer s.Close()
		log.Info("✅ Conectado a Discord", zap.String("user", s.State.User.Username), zap.String("id", s.State.User.ID))

		r := discordrouter.NewRouter(s, cfg.DiscordGuild, spinSvc, cfg.AdminRoleIDs, cfg.SpinCooldown, log)
		if err := r.Register(); err != nil {
			return fmt.Errorf("registrando comandos: %w", err)
		}
		r.Handlers()
		log.Info("✅ comandos registrados", zap.String("guild", cfg.DiscordGuild))
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}
	web := httpapi.New(spinSvc, empSvc, log, metrics, d.gatherer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return web.Serve(ln) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := web.Shutdown(sctx)
		_ = ln.Close()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func openDiscord(token string) (*discordgo.Session, error) {
	auth := strings.TrimSpace(token)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	s, err := discordgo.New(auth)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}
