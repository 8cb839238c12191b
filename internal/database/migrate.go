package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func (db *DB) migrate(table string) error {
	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{MigrationsTable: table})
	if err != nil {
		return fmt.Errorf("failed to init migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	// m.Close is not called: it would close the shared *sql.DB.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		db.logger.Debug().Uint("version", version).Bool("dirty", dirty).Msg("schema migrated")
	}
	return nil
}
