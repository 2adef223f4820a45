package service

import (
	"context"

	"github.com/jose-valero/spinboard/internal/domain"
)

// Lo implementan internal/infra/storage.{EmployeeRepo,RedisStore,MemoryStore}.
// IncrementWins tiene que ser la primitiva atómica nativa del store (nada de leer+escribir).
type EmployeeStore interface {
	List(ctx context.Context) ([]domain.Employee, error)
	Get(ctx context.Context, id string) (domain.Employee, error)
	IncrementWins(ctx context.Context, id string) (domain.Employee, error)
}

// CRUD externo (alta/edición/baja). El core no lo usa.
type EmployeeAdmin interface {
	Create(ctx context.Context, e domain.NewEmployee) (domain.Employee, error)
	Update(ctx context.Context, e domain.Employee) (domain.Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistingNames(ctx context.Context, names []string) (map[string]bool, error)
}

// Métricas opcionales (monitoring.Metrics). nil = no-op.
type SpinMetrics interface {
	SpinCompleted()
	WinRecorded()
	WinFailed(reason string)
}
