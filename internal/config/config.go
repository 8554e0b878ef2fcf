package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string   `env:"DATABASE_URL"`
	NormsPath   string   `env:"NORMS_PATH"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret           string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	APIClientID         string `env:"API_CLIENT_ID"`
	APIClientSecretHash string `env:"API_CLIENT_SECRET_HASH"` // bcrypt

	// Clave para seudonimizar respondent_id antes de persistir.
	PseudonymKey string `env:"PSEUDONYM_KEY"`

	SubmissionLimitPerHour int     `env:"SUBMISSION_LIMIT_PER_HOUR" envDefault:"10"`
	ResultCacheTTLMinutes  int     `env:"RESULT_CACHE_TTL_MINUTES" envDefault:"30"`
	BatchConcurrency       int     `env:"BATCH_CONCURRENCY" envDefault:"4"`
	BatchMaxSize           int     `env:"BATCH_MAX_SIZE" envDefault:"100"`
	VariabilitySeed        int64   `env:"VARIABILITY_SEED" envDefault:"0"`
	VariabilityAmplitude   float64 `env:"VARIABILITY_AMPLITUDE" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) JWTAccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c *Config) ResultCacheTTL() time.Duration {
	return time.Duration(c.ResultCacheTTLMinutes) * time.Minute
}

// PersistenceEnabled indica si hay base de datos configurada.
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}
