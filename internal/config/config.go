package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries read from the process environment.
// A .env file is honored when present; real environment variables win.
type Config struct {
	Port            string
	PostgresURL     string
	KafkaBrokers    []string
	OrdersTopic     string
	EmailServiceURL string
}

const defaultOrdersTopic = "order.placed"

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:            os.Getenv("PORT"),
		PostgresURL:     os.Getenv("POSTGRES_URL"),
		OrdersTopic:     os.Getenv("ORDERS_TOPIC"),
		EmailServiceURL: os.Getenv("EMAIL_SERVICE_URL"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.OrdersTopic == "" {
		cfg.OrdersTopic = defaultOrdersTopic
	}

	return cfg, nil
}

// RequirePostgres fails when no database URL is configured.
func (c *Config) RequirePostgres() error {
	if c.PostgresURL == "" {
		return errors.New("POSTGRES_URL environment variable is required")
	}
	return nil
}

// RequireKafka fails when no broker list is configured.
func (c *Config) RequireKafka() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS environment variable is required")
	}
	return nil
}
