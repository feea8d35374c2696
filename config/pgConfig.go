package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type DbConfig interface {
	GetConnectionString() string
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	Host     string `default:"localhost"`
	Port     string `default:"5432"`
	User     string `default:"postgres"`
	Password string `default:"postgres"`
	DBName   string `default:"postgres"`
	SSLMode  string `default:"disable"`
}

func (pc *PostgresConfig) GetConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// GetPostgresConfig reads POSTGRES_* variables from the environment.
func GetPostgresConfig() (*PostgresConfig, error) {
	var pc PostgresConfig
	if err := envconfig.Process("POSTGRES", &pc); err != nil {
		return nil, fmt.Errorf("postgres env config: %w", err)
	}
	return &pc, nil
}
