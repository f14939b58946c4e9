// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME" envDefault:"callcenter"`

	// Empty means campaign runs are dispatched in-process instead of
	// through RabbitMQ.
	AMQPURL string `env:"AMQP_URL"`

	ApidazeAPIKey    string `env:"APIDAZE_API_KEY"`
	ApidazeAPISecret string `env:"APIDAZE_API_SECRET"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}
