package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hotelbooking/internal/domain"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	path   string
	logger *zerolog.Logger
}

// NewDB opens the SQLite database at path and migrates it to the latest schema.
// The pool is limited to one connection so that ":memory:" databases work and
// every statement is serialized by the driver.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	return open(path, "", logger)
}

// NewDBWithMigrationTable is NewDB with a custom schema_migrations table name.
func NewDBWithMigrationTable(path, migrationTable string, logger *zerolog.Logger) (*DB, error) {
	return open(path, migrationTable, logger)
}

func open(path, migrationTable string, logger *zerolog.Logger) (*DB, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	if !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		// Создаем директорию для БД, если её нет
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, path: path, logger: logger}
	if err := db.migrate(migrationTable); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return db, nil
}

// Path returns the file the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// mapError translates driver errors into domain error kinds.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s not found", what)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.Conflict("%s already exists", what)
	}
	return err
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func normalizeTime(t *time.Time) {
	if t != nil && !t.IsZero() {
		*t = t.UTC()
	}
}

func likePattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(q))
	return "%" + q + "%"
}
