// Package migration applies the SQL schema in migrations/ with golang-migrate.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Migrator moves a PostgreSQL schema between versions of migrations/
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

type Status struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func sourceURL(dir string) string { return "file://" + dir }

// New runs over an open connection. Close closes db as well.
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL(dir), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migrations %s: %w", dir, err)
	}
	return &Migrator{m: m, log: log}, nil
}

// NewFromURL dials databaseURL with lib/pq
func NewFromURL(databaseURL, dir string, log *zap.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, describeConnError(err)
	}
	mg, err := New(db, dir, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return mg, nil
}

// describeConnError names the PostgreSQL condition behind a failed connect
func describeConnError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("connect database: %w", err)
	}
	switch pqErr.Code.Name() {
	case "invalid_catalog_name":
		return fmt.Errorf("database does not exist, create it first: %w", err)
	case "invalid_password", "invalid_authorization_specification":
		return fmt.Errorf("database rejected the credentials: %w", err)
	}
	return fmt.Errorf("connect database (SQLSTATE %s): %w", pqErr.Code, err)
}

func (mg *Migrator) Up() error   { return mg.apply("up", mg.m.Up) }
func (mg *Migrator) Down() error { return mg.apply("down", mg.m.Down) }

// Steps applies n migrations forward, or rolls back -n
func (mg *Migrator) Steps(n int) error {
	return mg.apply(fmt.Sprintf("steps %+d", n), func() error { return mg.m.Steps(n) })
}

// apply treats "no change" as success and logs the resulting version
func (mg *Migrator) apply(op string, fn func() error) error {
	mg.log.Info("Migrating schema", zap.String("op", op))
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("Schema already current")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}
	st, err := mg.Status()
	if err != nil {
		return err
	}
	mg.log.Info("Schema migrated", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
	return nil
}

// Status reports version 0 for a database no migration has touched
func (mg *Migrator) Status() (Status, error) {
	v, dirty, err := mg.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return Status{}, nil
	case err != nil:
		return Status{}, fmt.Errorf("read schema version: %w", err)
	}
	return Status{Version: v, Dirty: dirty}, nil
}

// Force records version as applied without running anything, clearing a
// dirty flag left by a failed migration
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}
