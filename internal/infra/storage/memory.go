package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jose-valero/spinboard/internal/domain"
)

// MemoryStore guarda el roster en memoria (dev y tests).
//
// El mapa se protege con un RWMutex y cada fila con su propio mutex: IncrementWins sólo toma
// el read-lock del mapa, así que incrementos sobre ids distintos no se bloquean entre sí.
// Delete toma el write-lock, de modo que un incremento ocurre antes del borrado o ve NotFound.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]*memRow
}

type memRow struct {
	mu   sync.Mutex
	id   string
	name string
	wins int
}

func (r *memRow) snapshot() domain.Employee {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.Employee{ID: r.id, Name: r.name, Wins: r.wins}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[string]*memRow{}}
}

func (s *MemoryStore) List(ctx context.Context) ([]domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r.snapshot())
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return domain.Employee{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	if !ok {
		return domain.Employee{}, domain.ErrNotFound
	}
	return r.snapshot(), nil
}

func (s *MemoryStore) IncrementWins(_ context.Context, id string) (domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	if !ok {
		return domain.Employee{}, domain.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wins++
	return domain.Employee{ID: r.id, Name: r.name, Wins: r.wins}, nil
}

func (s *MemoryStore) Create(_ context.Context, in domain.NewEmployee) (domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// uuid v4: nunca se reutiliza un id, ni después de un Delete
	id := uuid.NewString()
	for s.rows[id] != nil {
		id = uuid.NewString()
	}
	s.rows[id] = &memRow{id: id, name: in.Name, wins: in.Wins}
	return domain.Employee{ID: id, Name: in.Name, Wins: in.Wins}, nil
}

func (s *MemoryStore) Update(_ context.Context, in domain.Employee) (domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[in.ID]
	if !ok {
		return domain.Employee{}, domain.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = in.Name
	r.wins = in.Wins
	return domain.Employee{ID: r.id, Name: r.name, Wins: r.wins}, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *MemoryStore) ExistingNames(_ context.Context, names []string) (map[string]bool, error) {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := map[string]bool{}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		e := r.snapshot()
		if _, ok := want[e.Name]; ok {
			out[e.Name] = true
		}
	}
	return out, nil
}
