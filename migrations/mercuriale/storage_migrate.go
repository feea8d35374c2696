package mercuriale

import (
	"database/sql"
	"fmt"

	"gomercuriale/pkg/dbconnect/migration"
	"gomercuriale/pkg/logger"
)

const (
	LocalStorageSchemaMigration = "mercuriale.schema"
	LocalStorageTableMigration  = "mercuriale.local_storage"
)

// All returns the Postgres migrations of the local storage table, in order.
func All(log logger.Logger) []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&MigrationsSchema{},
		&LocalStorageSchema{Log: log},
		&LocalStorageTable{Log: log},
	}
}

type MigrationsSchema struct{}

func (m *MigrationsSchema) UpMigration(db *sql.DB) error {
	_, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS migrations;`)
	if err != nil {
		return fmt.Errorf("failed to create migrations schema: %w", err)
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS migrations.migrations (
            id SERIAL PRIMARY KEY,
            time TIMESTAMP NOT NULL,
            name VARCHAR(255) UNIQUE NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

type LocalStorageSchema struct {
	Log logger.Logger
}

func (m *LocalStorageSchema) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, m.Log, LocalStorageSchemaMigration); err != nil || ok {
		return err
	}
	if err := executeAndMarkMigration(db, `CREATE SCHEMA IF NOT EXISTS mercuriale;`, LocalStorageSchemaMigration); err != nil {
		return err
	}
	m.Log.Log("Migration '%s' completed successfully.", LocalStorageSchemaMigration)
	return nil
}

// LocalStorageTable is the string-keyed store holding the cart and the visible columns.
type LocalStorageTable struct {
	Log logger.Logger
}

func (m *LocalStorageTable) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, m.Log, LocalStorageTableMigration); err != nil || ok {
		return err
	}
	query := `
		CREATE TABLE IF NOT EXISTS mercuriale.local_storage (
			item_key VARCHAR(255) PRIMARY KEY,
			item_value TEXT NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if err := executeAndMarkMigration(db, query, LocalStorageTableMigration); err != nil {
		return err
	}
	m.Log.Log("Migration '%s' completed successfully.", LocalStorageTableMigration)
	return nil
}

func checkAndSkipMigration(db *sql.DB, log logger.Logger, migrationName string) (bool, error) {
	var migrationExists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", migrationName).Scan(&migrationExists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		log.Log("Migration '%s' already completed. Skipping.", migrationName)
	}
	return migrationExists, nil
}

func executeAndMarkMigration(db *sql.DB, query string, migrationName string) error {
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to execute migration '%s': %w", migrationName, err)
	}
	_, err = db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", migrationName)
	if err != nil {
		return fmt.Errorf("failed to mark migration '%s' as complete: %w", migrationName, err)
	}
	return nil
}
