package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gomercuriale/pkg/logger"
)

// SqliteDatabase opens a local database file once and hands out the same handle.
type SqliteDatabase struct {
	dsn string
	db  *gorm.DB
	mu  sync.Mutex
	log logger.Logger
}

func NewSqliteConnector(dsn string, log logger.Logger) *SqliteDatabase {
	return &SqliteDatabase{dsn: dsn, log: log}
}

func (s *SqliteDatabase) Gorm() (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := gorm.Open(sqlite.Open(s.dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.dsn, err)
	}
	s.log.Log("Opened sqlite database %s", s.dsn)
	s.db = db
	return s.db, nil
}

func (s *SqliteDatabase) Connect() (*sql.DB, error) {
	db, err := s.Gorm()
	if err != nil {
		return nil, err
	}
	return db.DB()
}

func (s *SqliteDatabase) Ping() error {
	db, err := s.Connect()
	if err != nil {
		return err
	}
	return db.Ping()
}
