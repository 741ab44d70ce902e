package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL for postgres:// DSNs and a pure-Go SQLite file otherwise.
func Connect(dsn string) (*gorm.DB, error) {
	return open(dsn, &gorm.Config{})
}

// ConnectQuiet is Connect with the gorm logger silenced (client-side storage, tests).
func ConnectQuiet(dsn string) (*gorm.DB, error) {
	return open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

func open(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite:", dsn)

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// sqlite serialises writers; one connection keeps :memory: databases coherent too
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate runs AutoMigrate for every model, stopping at the first failure.
func Migrate(db *gorm.DB, models ...any) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}
