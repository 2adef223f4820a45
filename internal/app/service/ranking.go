package service

import (
	"sort"

	"github.com/jose-valero/spinboard/internal/domain"
)

// Rank ordena por wins desc y, en empate, por id asc (comparación de bytes).
// Es pura: no toca el slice de entrada y el resultado sólo depende de los pares (id, wins).
// Con entrada vacía devuelve un slice vacío, nunca nil.
func Rank(employees []domain.Employee) []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.Entry())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Top recorta el leaderboard a n entradas (n <= 0 = todo).
func Top(board []domain.LeaderboardEntry, n int) []domain.LeaderboardEntry {
	if n <= 0 || len(board) <= n {
		return board
	}
	return board[:n]
}
