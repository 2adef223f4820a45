package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jose-valero/spinboard/internal/domain"
)

// Empleados de ejemplo para arrancar una base vacía.
var SampleEmployees = []domain.NewEmployee{
	{Name: "Alice Johnson", Wins: 15},
	{Name: "Bob Smith", Wins: 8},
	{Name: "Charlie Brown", Wins: 12},
	{Name: "Diana Prince", Wins: 20},
	{Name: "Edward Norton", Wins: 5},
	{Name: "Fiona Apple", Wins: 3},
	{Name: "George Washington", Wins: 18},
	{Name: "Hannah Montana", Wins: 9},
	{Name: "Isaac Newton", Wins: 22},
	{Name: "Julia Roberts", Wins: 11},
}

// EmployeeService es el CRUD del roster. Valida los invariantes (nombre no vacío, wins >= 0)
// antes de tocar el store.
type EmployeeService struct {
	repo EmployeeAdmin
	log  *zap.Logger
}

func NewEmployeeService(repo EmployeeAdmin, log *zap.Logger) *EmployeeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmployeeService{repo: repo, log: log.With(zap.String("component", "employees"))}
}

func (s *EmployeeService) Create(ctx context.Context, name string, wins int) (domain.Employee, error) {
	in, err := validate(name, wins)
	if err != nil {
		return domain.Employee{}, err
	}
	e, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	s.log.Info("[employees] created", zap.String("employee_id", e.ID), zap.String("name", e.Name))
	return e, nil
}

// Update pisa name y wins completos.
func (s *EmployeeService) Update(ctx context.Context, id, name string, wins int) (domain.Employee, error) {
	if err := ValidateID(id); err != nil {
		return domain.Employee{}, err
	}
	in, err := validate(name, wins)
	if err != nil {
		return domain.Employee{}, err
	}
	e, err := s.repo.Update(ctx, domain.Employee{ID: id, Name: in.Name, Wins: in.Wins})
	if err != nil {
		return domain.Employee{}, fmt.Errorf("update employee %s: %w", id, err)
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("delete employee %s: %w", id, domain.ErrNotFound)
	}
	s.log.Info("[employees] deleted", zap.String("employee_id", id))
	return nil
}

// Seed inserta los que falten (por nombre) y devuelve cuántos agregó.
// Si in está vacío usa SampleEmployees.
func (s *EmployeeService) Seed(ctx context.Context, in []domain.NewEmployee) (int, error) {
	if len(in) == 0 {
		in = SampleEmployees
	}
	rows := make([]domain.NewEmployee, 0, len(in))
	names := make([]string, 0, len(in))
	for _, e := range in {
		v, err := validate(e.Name, e.Wins)
		if err != nil {
			return 0, fmt.Errorf("seed %q: %w", e.Name, err)
		}
		rows = append(rows, v)
		names = append(names, v.Name)
	}
	existing, err := s.repo.ExistingNames(ctx, names)
	if err != nil {
		return 0, fmt.Errorf("seed lookup: %w", err)
	}
	if existing == nil {
		existing = map[string]bool{}
	}

	n := 0
	for _, v := range rows {
		if existing[v.Name] {
			continue
		}
		if _, err := s.repo.Create(ctx, v); err != nil {
			return n, fmt.Errorf("seed %q: %w", v.Name, err)
		}
		existing[v.Name] = true
		n++
	}
	s.log.Info("[employees] seeded", zap.Int("inserted", n), zap.Int("requested", len(in)))
	return n, nil
}

// ValidateID: los ids son UUID. Un id mal formado no puede existir, así que es NotFound.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("employee %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func validate(name string, wins int) (domain.NewEmployee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewEmployee{}, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	if wins < 0 {
		return domain.NewEmployee{}, fmt.Errorf("wins must be >= 0, got %d: %w", wins, domain.ErrInvalidInput)
	}
	return domain.NewEmployee{Name: name, Wins: wins}, nil
}
