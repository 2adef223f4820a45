package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jose-valero/spinboard/internal/domain"
)

const defaultSpinAttempts = 3

var tracer = otel.Tracer("github.com/jose-valero/spinboard/internal/app/service")

// SpinResult es lo que devuelve un giro completo: el ganador (ya con el win sumado) y el ranking nuevo.
type SpinResult struct {
	Winner      domain.Employee           `json:"winner"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type SpinService struct {
	store    EmployeeStore
	selector *Selector
	metrics  SpinMetrics
	log      *zap.Logger
	attempts int
}

type SpinOption func(*SpinService)

func WithSelector(sel *Selector) SpinOption {
	return func(s *SpinService) { s.selector = sel }
}
func WithMetrics(m SpinMetrics) SpinOption {
	return func(s *SpinService) { s.metrics = m }
}
func WithLogger(l *zap.Logger) SpinOption {
	return func(s *SpinService) { s.log = l }
}

// WithSpinAttempts: cuántas veces se vuelve a seleccionar si el elegido desapareció antes de registrar.
func WithSpinAttempts(n int) SpinOption {
	return func(s *SpinService) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func NewSpinService(store EmployeeStore, opts ...SpinOption) *SpinService {
	s := &SpinService{
		store:    store,
		selector: NewSelector(nil),
		log:      zap.NewNop(),
		attempts: defaultSpinAttempts,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(zap.String("component", "spin"))
	return s
}

// GetRoster devuelve todos los participantes, sin orden garantizado.
func (s *SpinService) GetRoster(ctx context.Context) ([]domain.Employee, error) {
	ctx, span := tracer.Start(ctx, "GetRoster")
	defer span.End()

	roster, err := s.store.List(ctx)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("list roster: %w", err))
	}
	return roster, nil
}

// GetLeaderboard: roster actual ordenado con Rank. Roster vacío = leaderboard vacío.
func (s *SpinService) GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "GetLeaderboard")
	defer span.End()

	roster, err := s.store.List(ctx)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("list roster: %w", err))
	}
	return Rank(roster), nil
}

// GetRandomParticipant: uniforme sobre el roster actual; domain.ErrEmptyRoster si no hay nadie.
func (s *SpinService) GetRandomParticipant(ctx context.Context) (domain.Employee, error) {
	ctx, span := tracer.Start(ctx, "GetRandomParticipant")
	defer span.End()

	roster, err := s.store.List(ctx)
	if err != nil {
		return domain.Employee{}, spanErr(span, fmt.Errorf("list roster: %w", err))
	}
	e, err := s.selector.Pick(roster)
	if err != nil {
		return domain.Employee{}, spanErr(span, err)
	}
	span.SetAttributes(attribute.Int("roster.size", len(roster)))
	return e, nil
}

// RecordWin suma 1 win a id y devuelve el leaderboard recalculado.
// El leaderboard siempre refleja el incremento propio (read-your-write); incrementos
// concurrentes de otros participantes pueden o no aparecer.
func (s *SpinService) RecordWin(ctx context.Context, id string) ([]domain.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "RecordWin", trace.WithAttributes(attribute.String("employee.id", id)))
	defer span.End()

	_, board, err := s.recordWin(ctx, id)
	if err != nil {
		return nil, spanErr(span, err)
	}
	return board, nil
}

func (s *SpinService) recordWin(ctx context.Context, id string) (domain.Employee, []domain.LeaderboardEntry, error) {
	updated, err := s.store.IncrementWins(ctx, id)
	if err != nil {
		s.winFailed(err)
		return domain.Employee{}, nil, fmt.Errorf("increment wins %s: %w", id, err)
	}
	s.markWin()
	s.log.Info("[spin] win recorded", zap.String("employee_id", updated.ID), zap.Int("wins", updated.Wins))

	// el incremento ya está commiteado; si el listado falla se informa, pero no se deshace nada
	roster, err := s.store.List(ctx)
	if err != nil {
		return updated, nil, fmt.Errorf("list roster after win: %w", err)
	}
	if !containsID(roster, updated.ID) {
		// o el listado viene atrasado, o la fila se borró después del incremento
		if _, err := s.store.Get(ctx, updated.ID); errors.Is(err, domain.ErrNotFound) {
			s.log.Info("[spin] winner deleted after win", zap.String("employee_id", updated.ID))
			return updated, Rank(roster), nil
		} else if err != nil {
			return updated, nil, fmt.Errorf("get %s after win: %w", updated.ID, err)
		}
	}
	return updated, Rank(withOwnWrite(roster, updated)), nil
}

func containsID(roster []domain.Employee, id string) bool {
	for _, e := range roster {
		if e.ID == id {
			return true
		}
	}
	return false
}

// withOwnWrite garantiza que el snapshot incluya nuestro propio incremento aunque el listado
// venga de una réplica atrasada. Nunca baja un valor que ya sea mayor. Sólo se llama con
// filas que siguen vivas.
func withOwnWrite(roster []domain.Employee, updated domain.Employee) []domain.Employee {
	for i := range roster {
		if roster[i].ID != updated.ID {
			continue
		}
		if roster[i].Wins >= updated.Wins {
			return roster
		}
		patched := make([]domain.Employee, len(roster))
		copy(patched, roster)
		patched[i].Wins = updated.Wins
		patched[i].Name = updated.Name
		return patched
	}
	return append(roster[:len(roster):len(roster)], updated)
}

// Spin ejecuta el ciclo Selecting → Recording → Ranked. Si el elegido ya no existe al
// registrar (borrado entre medio) vuelve a seleccionar desde un roster fresco; nunca
// reintenta el mismo resultado.
func (s *SpinService) Spin(ctx context.Context) (SpinResult, error) {
	ctx, span := tracer.Start(ctx, "Spin")
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return SpinResult{}, spanErr(span, err)
		}

		roster, err := s.store.List(ctx)
		if err != nil {
			return SpinResult{}, spanErr(span, fmt.Errorf("list roster: %w", err))
		}
		picked, err := s.selector.Pick(roster)
		if err != nil {
			return SpinResult{}, spanErr(span, err)
		}

		winner, board, err := s.recordWin(ctx, picked.ID)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("[spin] picked participant vanished, selecting again",
				zap.String("employee_id", picked.ID), zap.Int("attempt", attempt))
			lastErr = err
			continue
		}
		if err != nil {
			return SpinResult{}, spanErr(span, err)
		}

		s.markSpin()
		span.SetAttributes(attribute.String("winner.id", winner.ID), attribute.Int("attempts", attempt))
		return SpinResult{Winner: winner, Leaderboard: board}, nil
	}
	return SpinResult{}, spanErr(span, lastErr)
}

func (s *SpinService) markSpin() {
	if s.metrics != nil {
		s.metrics.SpinCompleted()
	}
}

func (s *SpinService) markWin() {
	if s.metrics != nil {
		s.metrics.WinRecorded()
	}
}

func (s *SpinService) winFailed(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.metrics.WinFailed("not_found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.metrics.WinFailed("store_unavailable")
	default:
		s.metrics.WinFailed("other")
	}
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
