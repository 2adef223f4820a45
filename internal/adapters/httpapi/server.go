package httpapi

import (
	"context"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jose-valero/spinboard/internal/adapters/apierr"
	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/domain"
	"github.com/jose-valero/spinboard/internal/infra/monitoring"
)

// Lo implementa service.SpinService
type SpinAPI interface {
	GetRoster(ctx context.Context) ([]domain.Employee, error)
	GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
	GetRandomParticipant(ctx context.Context) (domain.Employee, error)
	RecordWin(ctx context.Context, id string) ([]domain.LeaderboardEntry, error)
	Spin(ctx context.Context) (service.SpinResult, error)
}

// Lo implementa service.EmployeeService
type EmployeeAPI interface {
	Create(ctx context.Context, name string, wins int) (domain.Employee, error)
	Update(ctx context.Context, id, name string, wins int) (domain.Employee, error)
	Delete(ctx context.Context, id string) error
}

const requestTimeout = 5 * time.Second

type Server struct {
	app       *fiber.App
	spin      SpinAPI
	employees EmployeeAPI
	metrics   *monitoring.Metrics
	log       *zap.Logger
}

// New arma la app de fiber. metrics/gatherer pueden ser nil (sin /metrics).
func New(spin SpinAPI, employees EmployeeAPI, log *zap.Logger, metrics *monitoring.Metrics, gatherer prometheus.Gatherer) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		app:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		spin:      spin,
		employees: employees,
		metrics:   metrics,
		log:       log.With(zap.String("component", "http")),
	}
	s.routes(gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) {
	s.app.Use(recover.New())
	s.app.Use(s.observe)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	if gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api")
	api.Get("/employees", s.handleRoster)
	api.Get("/employees/random", s.handleRandom)
	api.Post("/employees", s.handleCreate)
	api.Put("/employees/:id", s.handleUpdate)
	api.Delete("/employees/:id", s.handleDelete)
	api.Get("/leaderboard", s.handleLeaderboard)
	api.Post("/wins", s.handleRecordWin)
	api.Post("/spin", s.handleSpin)
}

// App expone la app (tests con app.Test).
func (s *Server) App() *fiber.App { return s.app }

// Serve atiende sobre un listener ya abierto (el bind falla antes de arrancar goroutines).
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("🌐 HTTP listening", zap.String("addr", ln.Addr().String()))
	return s.app.Listener(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// observe cuenta requests por ruta (la ruta registrada, no el path crudo).
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}
	if s.metrics != nil {
		s.metrics.ObserveHTTP(c.Method(), c.Route().Path, status)
	}
	s.log.Debug("[http] request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("dur", time.Since(start)),
	)
	return err
}

func (s *Server) ctx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	code, msg := apierr.Status(err)
	if code >= fiber.StatusInternalServerError {
		s.log.Error("[http] request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		s.log.Info("[http] request rejected", zap.String("path", c.Path()), zap.Int("status", code), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
