package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalStorageItem is one key of the sqlite backed store.
type LocalStorageItem struct {
	ItemKey   string `gorm:"column:item_key;primaryKey;size:255"`
	ItemValue string `gorm:"column:item_value;not null"`
	UpdatedAt time.Time
}

func (LocalStorageItem) TableName() string { return "local_storage" }

type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore migrates the local_storage table.
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&LocalStorageItem{}); err != nil {
		return nil, fmt.Errorf("migrate local_storage: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var item LocalStorageItem
	err := s.db.Where("item_key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return item.ItemValue, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	item := LocalStorageItem{ItemKey: key, ItemValue: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.Where("item_key IN ?", keys).Delete(&LocalStorageItem{}).Error; err != nil {
		return fmt.Errorf("delete %v: %w", keys, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
