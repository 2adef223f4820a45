package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jose-valero/spinboard/internal/domain"
)

// Códigos de Postgres que tratamos como "no existe".
const (
	pgInvalidTextRepresentation = "22P02" // uuid mal formado
)

// classify traduce errores del driver a la taxonomía del dominio:
//   - sin filas / uuid inválido → domain.ErrNotFound
//   - conexión caída, timeouts → domain.ErrStoreUnavailable (envuelto, se conserva la causa)
//   - errores del servidor (constraints, sintaxis) pasan tal cual
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgInvalidTextRepresentation {
			return domain.ErrNotFound
		}
		return err
	}
	if isConnErr(err) {
		return unavailable(err)
	}
	return err
}

func isConnErr(err error) bool {
	var netErr net.Error
	var connErr *pgconn.ConnectError
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &connErr) ||
		errors.As(err, &netErr)
}

func unavailable(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
