package app

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// ApplyMigrations brings the schema up to the newest embedded migration and
// returns the resulting version.
func ApplyMigrations(ctx context.Context, connStr string, migrationFS fs.FS) (int64, error) {
	provider, db, err := newMigrationProvider(connStr, migrationFS)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate up: %w", err)
	}
	for _, res := range results {
		slog.InfoContext(ctx, "Migration applied",
			"version", res.Source.Version,
			"duration", res.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// MigrationState is one embedded migration and whether it has been applied.
type MigrationState struct {
	Version int64
	File    string
	Applied bool
}

func MigrationStatus(ctx context.Context, connStr string, migrationFS fs.FS) ([]MigrationState, error) {
	provider, db, err := newMigrationProvider(connStr, migrationFS)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}

	states := make([]MigrationState, 0, len(statuses))
	for _, st := range statuses {
		states = append(states, MigrationState{
			Version: st.Source.Version,
			File:    st.Source.Path,
			Applied: st.State == goose.StateApplied,
		})
	}
	return states, nil
}

func newMigrationProvider(connStr string, migrationFS fs.FS) (*goose.Provider, *sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	dir, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations dir: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, dir)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, db, nil
}
