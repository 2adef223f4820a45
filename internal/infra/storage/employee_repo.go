package storage

import (
	"context"
	"database/sql"
	"errors"

	pq "github.com/lib/pq"

	"github.com/jose-valero/spinboard/internal/domain"
)

type EmployeeRepo struct{ db *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

// List: todo el roster, sin orden (el orden es cosa de service.Rank).
func (r *EmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id::text, name, wins
  FROM employees
`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Wins); err != nil {
			return nil, classify(err)
		}
		out = append(out, e)
	}
	return out, classify(rows.Err())
}

func (r *EmployeeRepo) Get(ctx context.Context, id string) (domain.Employee, error) {
	var e domain.Employee
	err := r.db.QueryRowContext(ctx, `
SELECT id::text, name, wins
  FROM employees
 WHERE id = $1
`, id).Scan(&e.ID, &e.Name, &e.Wins)
	if err != nil {
		return domain.Employee{}, classify(err)
	}
	return e, nil
}

// IncrementWins: un solo UPDATE ... RETURNING. Postgres toma el lock de la fila dentro del
// statement, así que dos incrementos concurrentes sobre el mismo id se serializan y ninguno se pierde.
// Si la fila no existe (o el id no es uuid) → domain.ErrNotFound y no se toca nada.
func (r *EmployeeRepo) IncrementWins(ctx context.Context, id string) (domain.Employee, error) {
	var e domain.Employee
	err := r.db.QueryRowContext(ctx, `
UPDATE employees
   SET wins = wins + 1,
       updated_at = now()
 WHERE id = $1
RETURNING id::text, name, wins
`, id).Scan(&e.ID, &e.Name, &e.Wins)
	if err != nil {
		return domain.Employee{}, classify(err)
	}
	return e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, in domain.NewEmployee) (domain.Employee, error) {
	var e domain.Employee
	err := r.db.QueryRowContext(ctx, `
INSERT INTO employees (name, wins)
VALUES ($1, $2)
RETURNING id::text, name, wins
`, in.Name, in.Wins).Scan(&e.ID, &e.Name, &e.Wins)
	if err != nil {
		return domain.Employee{}, classify(err)
	}
	return e, nil
}

// Update pisa name y wins (edición manual desde el panel).
func (r *EmployeeRepo) Update(ctx context.Context, in domain.Employee) (domain.Employee, error) {
	var e domain.Employee
	err := r.db.QueryRowContext(ctx, `
UPDATE employees
   SET name = $2,
       wins = $3,
       updated_at = now()
 WHERE id = $1
RETURNING id::text, name, wins
`, in.ID, in.Name, in.Wins).Scan(&e.ID, &e.Name, &e.Wins)
	if err != nil {
		return domain.Employee{}, classify(err)
	}
	return e, nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM employees
 WHERE id = $1
`, id)
	if err != nil {
		err = classify(err)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ExistingNames: cuáles de names ya están en el roster (para que el seed sea idempotente).
func (r *EmployeeRepo) ExistingNames(ctx context.Context, names []string) (map[string]bool, error) {
	out := map[string]bool{}
	if len(names) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT name
  FROM employees
 WHERE name = ANY($1)
`, pq.Array(names))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, classify(err)
		}
		out[n] = true
	}
	return out, classify(rows.Err())
}
