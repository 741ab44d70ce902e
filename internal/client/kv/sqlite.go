package kv

import (
	"context"
	"errors"
	"time"

	"inkbook/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (entry) TableName() string { return "kv_entries" }

// SQLite persists entries in a local database file so they survive restarts.
type SQLite struct {
	db *gorm.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*SQLite, error) {
	db, err := database.ConnectQuiet(path)
	if err != nil {
		return nil, err
	}
	return NewSQLite(db)
}

// NewSQLite uses an existing connection and makes sure the table exists.
func NewSQLite(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var e entry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&entry{}).Error
}

// Close releases the underlying connection.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
