package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks the GORM driver for a DSN.
// postgres:// and postgresql:// go to Postgres, mysql:// to MySQL (prefix stripped,
// the rest is a go-sql-driver DSN), anything else is treated as a SQLite path
// with an optional sqlite:// prefix.
func Dialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://"))
	default:
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	}
}

// slogWriter feeds gorm's logger output into slog.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

// NewLogger returns a gorm logger that writes warnings, errors and slow
// queries to log. Misses on First are expected lookups and are not logged.
func NewLogger(log *slog.Logger) logger.Interface {
	return logger.New(slogWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Open opens a database handle without touching the package-level DB.
// TranslateError is always on so unique-index violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(Dialector(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         NewLogger(slog.Default()),
	})
}

// Connect initializes the package-level database connection.
func Connect(dsn string) error {
	var err error
	DB, err = Open(dsn)
	if err != nil {
		return err
	}
	return nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
