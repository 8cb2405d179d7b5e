package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/betterreads-loader/internal/database/authors"
	"github.com/mrlokans/betterreads-loader/internal/database/books"
	"github.com/mrlokans/betterreads-loader/internal/database/loads"
	"github.com/mrlokans/betterreads-loader/internal/entities"
)

type Database struct {
	DB *gorm.DB

	Authors *authors.Repository
	Books   *books.Repository
	Loads   *loads.Repository
}

type options struct {
	logLevel logger.LogLevel
}

type Option func(*options)

// WithLogLevel sets the gorm logger level. Bulk loads default to Warn
// because Info logs every upsert.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// ParseLogLevel maps DB_LOG_LEVEL values onto gorm levels.
func ParseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Book{},
		&entities.LoadRun{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{
		DB:      db,
		Authors: authors.NewRepository(db),
		Books:   books.NewRepository(db),
		Loads:   loads.NewRepository(db),
	}, nil
}

// dsn enables WAL and a busy timeout so the API can read while a load writes.
func dsn(dbPath string) string {
	if dbPath == ":memory:" || strings.Contains(dbPath, "?") {
		return dbPath
	}
	return dbPath + "?_journal=WAL&_busy_timeout=5000"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Stats holds row counts for the catalog tables.
type Stats struct {
	Authors int64 `json:"authors"`
	Books   int64 `json:"books"`
}

func (d *Database) GetStats() (Stats, error) {
	var s Stats
	if err := d.DB.Model(&entities.Author{}).Count(&s.Authors).Error; err != nil {
		return Stats{}, err
	}
	if err := d.DB.Model(&entities.Book{}).Count(&s.Books).Error; err != nil {
		return Stats{}, err
	}
	return s, nil
}
