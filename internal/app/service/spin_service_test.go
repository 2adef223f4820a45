package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/spinboard/internal/domain"
	"github.com/jose-valero/spinboard/internal/infra/storage"
)

func seedStore(t *testing.T, in ...domain.NewEmployee) (*storage.MemoryStore, []domain.Employee) {
	t.Helper()
	st := storage.NewMemoryStore()
	out := make([]domain.Employee, 0, len(in))
	for _, e := range in {
		created, err := st.Create(context.Background(), e)
		require.NoError(t, err)
		out = append(out, created)
	}
	return st, out
}

func winsByID(t *testing.T, st EmployeeStore) map[string]int {
	t.Helper()
	all, err := st.List(context.Background())
	require.NoError(t, err)
	out := map[string]int{}
	for _, e := range all {
		out[e.ID] = e.Wins
	}
	return out
}

func TestRecordWinConcurrentNoLostUpdates(t *testing.T) {
	st, emps := seedStore(t, domain.NewEmployee{Name: "Ana", Wins: 4}, domain.NewEmployee{Name: "Beto"})
	svc := NewSpinService(st)
	target := emps[0].ID

	const n = 100
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RecordWin(context.Background(), target); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	wins := winsByID(t, st)
	assert.Equal(t, 4+n, wins[target])
	assert.Equal(t, 0, wins[emps[1].ID])
}

func TestRecordWinConcurrentAcrossParticipants(t *testing.T) {
	st, emps := seedStore(t,
		domain.NewEmployee{Name: "Ana"},
		domain.NewEmployee{Name: "Beto"},
		domain.NewEmployee{Name: "Caro"},
	)
	svc := NewSpinService(st)

	var wg sync.WaitGroup
	for _, e := range emps {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := svc.RecordWin(context.Background(), id)
				assert.NoError(t, err)
			}(e.ID)
		}
	}
	wg.Wait()

	for _, w := range winsByID(t, st) {
		assert.Equal(t, 50, w)
	}
}

func TestRecordWinNotFoundLeavesWinsUntouched(t *testing.T) {
	st, emps := seedStore(t, domain.NewEmployee{Name: "Ana", Wins: 3}, domain.NewEmployee{Name: "Beto", Wins: 1})
	svc := NewSpinService(st)
	before := winsByID(t, st)

	_, err := svc.RecordWin(context.Background(), "00000000-0000-4000-8000-000000000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, before, winsByID(t, st))

	// borrado entre selección y registro
	_, err = st.Delete(context.Background(), emps[1].ID)
	require.NoError(t, err)
	_, err = svc.RecordWin(context.Background(), emps[1].ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 3, winsByID(t, st)[emps[0].ID])
}

func TestEmptyRoster(t *testing.T) {
	svc := NewSpinService(storage.NewMemoryStore())
	ctx := context.Background()

	board, err := svc.GetLeaderboard(ctx)
	require.NoError(t, err)
	require.NotNil(t, board)
	assert.Empty(t, board)

	_, err = svc.GetRandomParticipant(ctx)
	assert.True(t, errors.Is(err, domain.ErrEmptyRoster))

	_, err = svc.Spin(ctx)
	assert.True(t, errors.Is(err, domain.ErrEmptyRoster))
}

func TestScenarioTiedLeadersAndLastPlace(t *testing.T) {
	st, emps := seedStore(t,
		domain.NewEmployee{Name: "A", Wins: 5},
		domain.NewEmployee{Name: "B", Wins: 5},
		domain.NewEmployee{Name: "C", Wins: 2},
	)
	svc := NewSpinService(st)
	ctx := context.Background()
	c := emps[2]

	first, err := svc.GetLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.ElementsMatch(t, []string{"A", "B"}, []string{first[0].Name, first[1].Name})
	assert.Equal(t, "C", first[2].Name)

	for i := 0; i < 10; i++ {
		again, err := svc.GetLeaderboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	after, err := svc.RecordWin(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, first[0].ID, after[0].ID)
	assert.Equal(t, first[1].ID, after[1].ID)
	assert.Equal(t, c.ID, after[2].ID)
	assert.Equal(t, 3, after[2].Wins)
}

func TestGetRosterAndRandomParticipant(t *testing.T) {
	st, emps := seedStore(t, domain.NewEmployee{Name: "A"}, domain.NewEmployee{Name: "B"})
	svc := NewSpinService(st, WithSelector(NewSelector(rand.New(rand.NewPCG(5, 6)))))
	ctx := context.Background()

	roster, err := svc.GetRoster(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, emps, roster)

	e, err := svc.GetRandomParticipant(ctx)
	require.NoError(t, err)
	assert.Contains(t, emps, e)
}

// laggingStore simula una réplica que todavía no vio el último incremento.
type laggingStore struct {
	*storage.MemoryStore
	stale []domain.Employee
}

func (l *laggingStore) List(context.Context) ([]domain.Employee, error) {
	return append([]domain.Employee(nil), l.stale...), nil
}

func TestRecordWinReadYourWrite(t *testing.T) {
	mem, emps := seedStore(t, domain.NewEmployee{Name: "A", Wins: 5}, domain.NewEmployee{Name: "C", Wins: 5})
	st := &laggingStore{MemoryStore: mem, stale: emps}
	svc := NewSpinService(st)

	board, err := svc.RecordWin(context.Background(), emps[1].ID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, emps[1].ID, board[0].ID)
	assert.Equal(t, 6, board[0].Wins)

	// réplica que ni siquiera tiene la fila: igual aparece
	st.stale = emps[:1]
	board, err = svc.RecordWin(context.Background(), emps[1].ID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, emps[1].ID, board[0].ID)
	assert.Equal(t, 7, board[0].Wins)
}

// deletedAfterWinStore borra la fila apenas termina el incremento.
type deletedAfterWinStore struct {
	*storage.MemoryStore
}

func (d *deletedAfterWinStore) IncrementWins(ctx context.Context, id string) (domain.Employee, error) {
	e, err := d.MemoryStore.IncrementWins(ctx, id)
	if err != nil {
		return e, err
	}
	_, err = d.MemoryStore.Delete(ctx, id)
	return e, err
}

func TestRecordWinDoesNotResurrectDeletedRow(t *testing.T) {
	mem, emps := seedStore(t, domain.NewEmployee{Name: "A", Wins: 2}, domain.NewEmployee{Name: "B", Wins: 1})
	svc := NewSpinService(&deletedAfterWinStore{MemoryStore: mem})

	board, err := svc.RecordWin(context.Background(), emps[1].ID)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, emps[0].ID, board[0].ID)
	for _, e := range board {
		assert.NotEqual(t, emps[1].ID, e.ID)
	}

	res, err := svc.Spin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, emps[0].ID, res.Winner.ID)
	assert.Empty(t, res.Leaderboard)
}

// vanishingStore borra al primer elegido justo antes de registrar el win.
type vanishingStore struct {
	*storage.MemoryStore
	mu       sync.Mutex
	vanished int
	limit    int
}

func (v *vanishingStore) IncrementWins(ctx context.Context, id string) (domain.Employee, error) {
	v.mu.Lock()
	if v.vanished < v.limit {
		v.vanished++
		v.mu.Unlock()
		if _, err := v.MemoryStore.Delete(ctx, id); err != nil {
			return domain.Employee{}, err
		}
		return v.MemoryStore.IncrementWins(ctx, id)
	}
	v.mu.Unlock()
	return v.MemoryStore.IncrementWins(ctx, id)
}

func TestSpinRestartsSelectionWhenWinnerVanishes(t *testing.T) {
	mem, _ := seedStore(t, domain.NewEmployee{Name: "A"}, domain.NewEmployee{Name: "B"}, domain.NewEmployee{Name: "C"})
	st := &vanishingStore{MemoryStore: mem, limit: 1}
	m := &fakeMetrics{}
	svc := NewSpinService(st, WithMetrics(m))

	res, err := svc.Spin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Winner.Wins)
	require.Len(t, res.Leaderboard, 2)
	assert.Equal(t, res.Winner.ID, res.Leaderboard[0].ID)

	assert.Equal(t, 1, m.spins)
	assert.Equal(t, 1, m.wins)
	assert.Equal(t, map[string]int{"not_found": 1}, m.failures)
}

func TestSpinGivesUpAfterAttempts(t *testing.T) {
	mem, _ := seedStore(t,
		domain.NewEmployee{Name: "A"}, domain.NewEmployee{Name: "B"},
		domain.NewEmployee{Name: "C"}, domain.NewEmployee{Name: "D"},
	)
	st := &vanishingStore{MemoryStore: mem, limit: 10}
	svc := NewSpinService(st, WithSpinAttempts(2))

	_, err := svc.Spin(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 2, st.vanished)

	left, err := mem.List(context.Background())
	require.NoError(t, err)
	for _, e := range left {
		assert.Zero(t, e.Wins)
	}
}

type downStore struct{}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func (downStore) List(context.Context) ([]domain.Employee, error) {
	return nil, errors.Join(domain.ErrStoreUnavailable, errConnRefused)
}
func (downStore) Get(context.Context, string) (domain.Employee, error) {
	return domain.Employee{}, errors.Join(domain.ErrStoreUnavailable, errConnRefused)
}
func (downStore) IncrementWins(context.Context, string) (domain.Employee, error) {
	return domain.Employee{}, errors.Join(domain.ErrStoreUnavailable, errConnRefused)
}

func TestStoreUnavailablePropagates(t *testing.T) {
	m := &fakeMetrics{}
	svc := NewSpinService(downStore{}, WithMetrics(m))
	ctx := context.Background()

	_, err := svc.GetLeaderboard(ctx)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	_, err = svc.GetRandomParticipant(ctx)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	_, err = svc.RecordWin(ctx, "x")
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.True(t, errors.Is(err, errConnRefused))

	assert.Equal(t, map[string]int{"store_unavailable": 1}, m.failures)
}

type fakeMetrics struct {
	mu       sync.Mutex
	spins    int
	wins     int
	failures map[string]int
}

func (f *fakeMetrics) SpinCompleted() { f.mu.Lock(); f.spins++; f.mu.Unlock() }
func (f *fakeMetrics) WinRecorded()   { f.mu.Lock(); f.wins++; f.mu.Unlock() }
func (f *fakeMetrics) WinFailed(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures == nil {
		f.failures = map[string]int{}
	}
	f.failures[reason]++
}
