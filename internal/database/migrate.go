package database

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/store"
)

const rollbackSuffix = "_rollback.sql"

// ErrNoMigrations is returned by RollbackLast when nothing has been applied
var ErrNoMigrations = errors.New("no migrations to roll back")

// Migration is one SQL file and its optional rollback file
type Migration struct {
	Name     string
	Up       string
	Rollback string
}

// LoadMigrations reads NNNN_name.sql files (and their NNNN_name_rollback.sql
// counterparts) from dir, sorted by name. {{.Table}} in a file is replaced
// with the configured table name.
func LoadMigrations(dir, table string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		up, err := renderMigration(filepath.Join(dir, name), table)
		if err != nil {
			return nil, err
		}

		m := Migration{Name: name, Up: up}
		rollbackPath := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
		if _, err := os.Stat(rollbackPath); err == nil {
			if m.Rollback, err = renderMigration(rollbackPath, table); err != nil {
				return nil, err
			}
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

func renderMigration(path, table string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read migration file %s: %w", filepath.Base(path), err)
	}
	tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse migration file %s: %w", filepath.Base(path), err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Table string }{Table: table}); err != nil {
		return "", fmt.Errorf("failed to render migration file %s: %w", filepath.Base(path), err)
	}
	return buf.String(), nil
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// ApplyMigrations runs every migration not yet recorded, each in its own
// transaction, and returns the names it applied.
func ApplyMigrations(ctx context.Context, db *sql.DB, migrations []Migration) ([]string, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range migrations {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE name = $1", m.Name).Scan(&count); err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			slog.Debug("skipping migration", "component", "migrate", "name", m.Name)
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("failed to begin migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", m.Name); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to record migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %s: %w", m.Name, err)
		}

		slog.Info("applied migration", "component", "migrate", "name", m.Name)
		applied = append(applied, m.Name)
	}
	return applied, nil
}

// RollbackLast reverts the most recently applied migration
func RollbackLast(ctx context.Context, db *sql.DB, migrations []Migration) (string, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return "", err
	}

	var last string
	err := db.QueryRowContext(ctx, "SELECT name FROM schema_migrations ORDER BY applied_at DESC, name DESC LIMIT 1").Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMigrations
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	var m *Migration
	for i := range migrations {
		if migrations[i].Name == last {
			m = &migrations[i]
		}
	}
	if m == nil || m.Rollback == "" {
		return "", fmt.Errorf("rollback file not found for %s", last)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin rollback of %s: %w", last, err)
	}
	if _, err := tx.ExecContext(ctx, m.Rollback); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to roll back %s: %w", last, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE name = $1", last); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to unrecord migration %s: %w", last, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rollback of %s: %w", last, err)
	}
	return last, nil
}

// RunMigrations prepares the recipe table of a gorm-backed store. SQLite and
// postgres without a migrations directory use gorm auto-migration; postgres
// with a directory applies the SQL files.
func RunMigrations(ctx context.Context, db *gorm.DB, table, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" || migrationsDir == "" {
		slog.Info("using gorm auto-migration", "component", "migrate", "dialect", db.Dialector.Name())
		return store.NewGormStore(db, table).AutoMigrate()
	}

	migrations, err := LoadMigrations(migrationsDir, table)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	_, err = ApplyMigrations(ctx, sqlDB, migrations)
	return err
}
