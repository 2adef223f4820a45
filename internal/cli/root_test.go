package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/domain"
	"github.com/jose-valero/spinboard/internal/infra/storage"
)

func memOpener(st *storage.MemoryStore) Opener {
	return func(context.Context, bool) (*Services, func() error, error) {
		return &Services{
			Driver:    "memory",
			Spin:      service.NewSpinService(st),
			Employees: service.NewEmployeeService(st, nil),
		}, func() error { return nil }, nil
	}
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(memOpener(storage.NewMemoryStore()))
	for _, name := range []string{"roster", "leaderboard", "spin", "win", "seed", "migrate"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, memOpener(storage.NewMemoryStore()), "--format", "xml", "roster")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSeedThenLeaderboardJSON(t *testing.T) {
	st := storage.NewMemoryStore()
	open := memOpener(st)

	out, err := run(t, open, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "inserted 10 participant(s)")

	out, err = run(t, open, "seed", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","command":"seed","data":{"inserted":0}}`, out)

	out, err = run(t, open, "leaderboard", "--format", "json", "--top", "3")
	require.NoError(t, err)
	var board []domain.LeaderboardEntry
	require.NoError(t, json.Unmarshal([]byte(out), &board))
	require.Len(t, board, 3)
	assert.Equal(t, "Isaac Newton", board[0].Name)
	assert.Equal(t, "Diana Prince", board[1].Name)
	assert.Equal(t, "George Washington", board[2].Name)
}

func TestWinAndSpinText(t *testing.T) {
	st := storage.NewMemoryStore()
	e, err := st.Create(context.Background(), domain.NewEmployee{Name: "Ana", Wins: 1})
	require.NoError(t, err)
	open := memOpener(st)

	out, err := run(t, open, "win", e.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	got, err := st.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Wins)

	out, err = run(t, open, "spin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "winner: Ana (3 wins)"), out)

	_, err = run(t, open, "win", "00000000-0000-4000-8000-000000000000")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSpinEmptyRoster(t *testing.T) {
	_, err := run(t, memOpener(storage.NewMemoryStore()), "spin")
	assert.True(t, errors.Is(err, domain.ErrEmptyRoster))

	out, err := run(t, memOpener(storage.NewMemoryStore()), "leaderboard")
	require.NoError(t, err)
	assert.Equal(t, "no participants yet\n", out)
}

func TestSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Ana\n  wins: 3\n- name: Beto\n"), 0o600))

	st := storage.NewMemoryStore()
	_, err := run(t, memOpener(st), "seed", "--file", path)
	require.NoError(t, err)

	out, err := run(t, memOpener(st), "roster", "--format", "json")
	require.NoError(t, err)
	var roster []domain.Employee
	require.NoError(t, json.Unmarshal([]byte(out), &roster))
	assert.Len(t, roster, 2)
}

func TestParseSeed(t *testing.T) {
	in, err := parseSeed([]byte("- name: Ana\n  wins: 3\n- name: Beto\n"))
	require.NoError(t, err)
	assert.Equal(t, []domain.NewEmployee{{Name: "Ana", Wins: 3}, {Name: "Beto"}}, in)

	_, err = parseSeed([]byte("[]"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = parseSeed([]byte("name: [unclosed"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestOpenErrorIsWrapped(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	open := func(context.Context, bool) (*Services, func() error, error) {
		return nil, func() error { return nil }, boom
	}
	_, err := run(t, open, "roster")
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "open store")
}
