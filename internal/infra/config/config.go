package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config se arma una vez en main y se pasa a quien abre el store; no hay estado global.
type Config struct {
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"spinboard"`

	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":2022"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	SpinAttempts int `env:"SPIN_ATTEMPTS" envDefault:"3"`

	// Discord (opcional: si no hay token no se levanta el bot)
	DiscordToken string        `env:"DISCORD_BOT_TOKEN"`
	DiscordGuild string        `env:"DISCORD_GUILD_ID"`
	AdminRoleIDs []string      `env:"ADMIN_ROLE_IDS" envSeparator:","`
	SpinCooldown time.Duration `env:"SPIN_COOLDOWN" envDefault:"3s"`

	OTELEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load lee el entorno (godotenv ya cargado por main) y valida combinaciones.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("faltante env DATABASE_URL (STORE_DRIVER=postgres)")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("faltante env REDIS_ADDR (STORE_DRIVER=redis)")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q inválido: postgres | redis | memory", c.StoreDriver)
	}
	if c.DiscordToken != "" && c.DiscordGuild == "" {
		return fmt.Errorf("faltante env DISCORD_GUILD_ID (DISCORD_BOT_TOKEN seteado)")
	}
	if c.SpinAttempts < 1 {
		return fmt.Errorf("SPIN_ATTEMPTS debe ser >= 1, got %d", c.SpinAttempts)
	}
	return nil
}

func (c Config) DiscordEnabled() bool { return strings.TrimSpace(c.DiscordToken) != "" }
