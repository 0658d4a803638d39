package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema file.
type Migration struct {
	Version  string
	Name     string
	SQL      string
	Checksum string
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	Checksum      string
	ExecutionTime time.Duration
}

// ErrChecksumMismatch is returned when an applied migration file has changed.
var ErrChecksumMismatch = errors.New("sqlite: migration checksum mismatch")

// Migrations lists the embedded migrations in version order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("sqlite: read migrations: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, name, ok := strings.Cut(strings.TrimSuffix(entry.Name(), ".sql"), "_")
		if !ok || version == "" {
			return nil, fmt.Errorf("sqlite: invalid migration file name %q", entry.Name())
		}
		content, err := migrationFiles.ReadFile(path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("sqlite: read migration %s: %w", entry.Name(), err)
		}
		sum := sha256.Sum256(content)
		out = append(out, Migration{
			Version:  version,
			Name:     name,
			SQL:      string(content),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrate applies pending embedded migrations, each in its own transaction.
func Migrate(ctx context.Context, pool *ConnectionPool, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	db := pool.DB()

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			checksum TEXT NOT NULL,
			execution_time_ms INTEGER NOT NULL
		)`); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations table: %w", err)
	}

	applied, err := AppliedMigrations(ctx, pool)
	if err != nil {
		return err
	}
	known := make(map[string]AppliedMigration, len(applied))
	for _, a := range applied {
		known[a.Version] = a
	}

	migrations, err := Migrations()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if a, ok := known[m.Version]; ok {
			if a.Checksum != m.Checksum {
				return fmt.Errorf("%w: version %s", ErrChecksumMismatch, m.Version)
			}
			continue
		}

		start := time.Now()
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range splitStatements(m.SQL) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("sqlite: migration %s: %w", m.Version, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at, checksum, execution_time_ms) VALUES (?, ?, ?, ?)`,
				m.Version, time.Now().UTC().Format(time.RFC3339), m.Checksum, time.Since(start).Milliseconds())
			return err
		})
		if err != nil {
			logger.ErrorContext(ctx, "migration failed", "version", m.Version, "name", m.Name, "error", err)
			return err
		}
		logger.InfoContext(ctx, "migration applied", "version", m.Version, "name", m.Name, "duration", time.Since(start))
	}
	return nil
}

// AppliedMigrations lists the recorded migrations in version order.
func AppliedMigrations(ctx context.Context, pool *ConnectionPool) ([]AppliedMigration, error) {
	rows, err := pool.DB().QueryContext(ctx,
		`SELECT version, applied_at, checksum, execution_time_ms FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list applied migrations: %w", err)
	}
	defer rows.Close()

	var out []AppliedMigration
	for rows.Next() {
		var (
			a         AppliedMigration
			appliedAt string
			elapsedMs int64
		)
		if err := rows.Scan(&a.Version, &appliedAt, &a.Checksum, &elapsedMs); err != nil {
			return nil, fmt.Errorf("sqlite: scan applied migration: %w", err)
		}
		a.AppliedAt, _ = time.Parse(time.RFC3339, appliedAt)
		a.ExecutionTime = time.Duration(elapsedMs) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}

// splitStatements splits a migration on semicolons, dropping comment lines.
func splitStatements(script string) []string {
	var out []string
	for _, chunk := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			out = append(out, strings.TrimSpace(strings.Join(lines, "\n")))
		}
	}
	return out
}
