package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/psymap/psymap/schema"
)

// migrationsTable records the applied history schema version.
const migrationsTable = "psymap_schema_migrations"

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// migrationOutcome describes what a migration call changed.
type migrationOutcome struct {
	from    uint
	to      uint
	changed bool
}

// migrationDir returns the embedded directory holding a backend's migrations.
func migrationDir(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "migrations/sqlite", nil
	case schema.MySQLBackend:
		return "migrations/mysql", nil
	case schema.PostgreSQLBackend:
		return "migrations/postgresql", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// newMigrator wraps an open connection pool in a migrate instance.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch backend {
	case schema.SQLiteBackend:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	dir, err := migrationDir(backend)
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(backend), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// runMigrations moves the history schema to targetVersion.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to the specified version.
func runMigrations(m *migrate.Migrate, targetVersion int) (migrationOutcome, error) {
	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return migrationOutcome{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return migrationOutcome{}, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}

	outcome := migrationOutcome{from: current, to: current}
	if errors.Is(err, migrate.ErrNoChange) {
		return outcome, nil
	}
	if err != nil {
		return outcome, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	outcome.changed = true
	if v, _, verr := m.Version(); verr == nil {
		outcome.to = v
	} else {
		outcome.to = 0
	}
	return outcome, nil
}

// MigrateHistory runs database migrations for the report history store.
// targetVersion follows runMigrations: negative for latest, 0 for a full rollback.
func MigrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	m, err := newMigrator(db, backend)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	outcome, err := runMigrations(m, targetVersion)
	if err != nil {
		return err
	}

	if !outcome.changed {
		fmt.Printf("No migration needed. Database is already at version %d\n", outcome.to)
		return nil
	}
	fmt.Printf("Successfully migrated from version %d to version %d\n", outcome.from, outcome.to)
	return nil
}

// autoMigrate brings a freshly opened history database to the latest version.
// SQLite runs on the store's own pool so in-memory databases keep their tables;
// server backends use a dedicated pool because their drivers pin a connection.
func autoMigrate(db *sql.DB, backend schema.DatabaseBackend, connStr string) error {
	if backend == schema.SQLiteBackend {
		m, err := newMigrator(db, backend)
		if err != nil {
			return err
		}
		_, err = runMigrations(m, -1)
		return err
	}

	mdb, err := openDatabase(backend, connStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = mdb.Close() }()

	m, err := newMigrator(mdb, backend)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	_, err = runMigrations(m, -1)
	return err
}
