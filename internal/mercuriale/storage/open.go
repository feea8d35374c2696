package storage

import (
	"fmt"

	"gomercuriale/config"
	"gomercuriale/migrations/mercuriale"
	"gomercuriale/pkg/dbconnect/migration"
	"gomercuriale/pkg/dbconnect/postgres"
	"gomercuriale/pkg/dbconnect/sqlite"
	"gomercuriale/pkg/logger"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open builds the configured backend. Postgres connects and applies its migrations.
func Open(cfg *config.AppConfig, log logger.Logger) (KVStore, error) {
	switch cfg.Storage.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(cfg.Storage.Path), nil
	case BackendSQLite, "":
		db, err := sqlite.NewSqliteConnector(cfg.Storage.Path, log).Gorm()
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db)
	case BackendPostgres:
		db, err := postgres.NewPgConnector(&cfg.Postgres, log).Connect()
		if err != nil {
			return nil, err
		}
		if err := migration.Apply(db, mercuriale.All(log)...); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
