package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booknet/internal/entities"
)

// Database is the local SQLite store. Catalog entities live in the
// backend; only audit events, ratings and sessions are kept here.
type Database struct {
	DB *gorm.DB
}

const sqliteOptions = "_journal=WAL&_timeout=5000&_busy_timeout=5000"

// DSN turns a SQLite file path into a go-sqlite3 DSN with WAL journaling
// and a busy timeout. Paths that already carry a query string are kept.
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?" + sqliteOptions
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(DSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.AuditEvent{},
		&entities.Rating{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
