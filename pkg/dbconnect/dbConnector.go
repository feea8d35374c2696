package dbconnect

import "database/sql"

// DbConnector opens (or reuses) a *sql.DB. Implementations: postgres, sqlite.
type DbConnector interface {
	Connect() (*sql.DB, error)
}
