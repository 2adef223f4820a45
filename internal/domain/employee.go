package domain

// Employee es un participante del roster. Wins nunca es negativo.
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// LeaderboardEntry es la proyección de Employee que devuelve el ranking.
// No se persiste.
type LeaderboardEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// NewEmployee es el input de alta (y de seed).
type NewEmployee struct {
	Name string `json:"name" yaml:"name"`
	Wins int    `json:"wins" yaml:"wins"`
}

func (e Employee) Entry() LeaderboardEntry {
	return LeaderboardEntry{ID: e.ID, Name: e.Name, Wins: e.Wins}
}
