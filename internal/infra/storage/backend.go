package storage

import (
	"context"
	"fmt"

	"github.com/jose-valero/spinboard/internal/domain"
	"github.com/jose-valero/spinboard/internal/infra/config"
)

// Backend junta el contrato del core (List/Get/IncrementWins) con el CRUD.
type Backend interface {
	List(ctx context.Context) ([]domain.Employee, error)
	Get(ctx context.Context, id string) (domain.Employee, error)
	IncrementWins(ctx context.Context, id string) (domain.Employee, error)
	Create(ctx context.Context, e domain.NewEmployee) (domain.Employee, error)
	Update(ctx context.Context, e domain.Employee) (domain.Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistingNames(ctx context.Context, names []string) (map[string]bool, error)
}

var (
	_ Backend = (*EmployeeRepo)(nil)
	_ Backend = (*RedisStore)(nil)
	_ Backend = (*MemoryStore)(nil)
)

// OpenBackend abre el store que pida cfg.StoreDriver. Con postgres además aplica migraciones
// si migrate es true. El close devuelto siempre es no-nil.
func OpenBackend(ctx context.Context, cfg config.Config, migrate bool) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if migrate {
			if err := Migrate(db); err != nil {
				_ = db.Close()
				return nil, noop, fmt.Errorf("migrate: %w", err)
			}
		}
		return NewEmployeeRepo(db), db.Close, nil

	case config.DriverRedis:
		rdb, err := OpenRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(rdb, cfg.RedisPrefix), rdb.Close, nil

	case config.DriverMemory:
		return NewMemoryStore(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
