package dbconnect

// Database is a connector that can also check the connection is alive.
type Database interface {
	DbConnector
	Ping() error
}
