package service

import (
	crand "crypto/rand"
	"math/big"

	"github.com/jose-valero/spinboard/internal/domain"
)

// Source devuelve un entero uniforme en [0, n). *rand.Rand de math/rand/v2 lo cumple,
// así los tests pueden inyectar una fuente con seed fija.
type Source interface {
	IntN(n int) int
}

// CryptoSource saca entropía de crypto/rand en cada llamada.
type CryptoSource struct{}

func (CryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("spin: IntN with non-positive n")
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand no falla en plataformas soportadas
		panic("spin: read random: " + err.Error())
	}
	return int(v.Int64())
}

type Selector struct {
	src Source
}

// NewSelector con src nil usa CryptoSource.
func NewSelector(src Source) *Selector {
	if src == nil {
		src = CryptoSource{}
	}
	return &Selector{src: src}
}

// Pick elige un elemento con probabilidad 1/n. No mira wins: la chance no depende de cómo va cada uno.
func (s *Selector) Pick(roster []domain.Employee) (domain.Employee, error) {
	if len(roster) == 0 {
		return domain.Employee{}, domain.ErrEmptyRoster
	}
	return roster[s.src.IntN(len(roster))], nil
}
