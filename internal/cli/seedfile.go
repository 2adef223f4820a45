package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jose-valero/spinboard/internal/domain"
)

// loadSeedFile lee una lista YAML de {name, wins}. path vacío = nil (samples).
func loadSeedFile(path string) ([]domain.NewEmployee, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(raw)
}

func parseSeed(raw []byte) ([]domain.NewEmployee, error) {
	var out []domain.NewEmployee
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse seed file: %v: %w", err, domain.ErrInvalidInput)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("seed file has no participants: %w", domain.ErrInvalidInput)
	}
	return out, nil
}
