// Package migrate applies the embedded SQL schema for the MySQL snapshot backend.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	file    string
}

// Run applies pending migrations found under internal/migrate/sql.
// Migrations are named like 0001_description.sql and run in version order.
// Each file is executed as a single statement batch; the DSN should include
// multiStatements=true.
func Run(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		return err
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return err
	}
	applied, err := loadApplied(ctx, db)
	if err != nil {
		return err
	}
	files, err := fs.Glob(migrationsFS, "sql/*.sql")
	if err != nil {
		return err
	}
	todo, err := pending(files, applied)
	if err != nil {
		return err
	}
	if len(todo) == 0 {
		log.Debug("schema up to date", slog.Int("applied", len(applied)))
		return nil
	}

	for _, m := range todo {
		b, err := fs.ReadFile(migrationsFS, m.file)
		if err != nil {
			return err
		}
		base := filepath.Base(m.file)
		log.Info("applying migration", slog.Int("version", m.version), slog.String("file", base))
		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			return fmt.Errorf("applying %s: %w", base, err)
		}
		if err := recordApplied(ctx, db, m.version); err != nil {
			return err
		}
	}
	return nil
}

// pending returns the migrations not yet applied, ordered by version.
func pending(files []string, applied map[int]bool) ([]migration, error) {
	var out []migration
	seen := make(map[int]string, len(files))
	for _, f := range files {
		base := filepath.Base(f)
		ver, err := parseVersion(base)
		if err != nil {
			return nil, fmt.Errorf("invalid migration filename %q: %w", base, err)
		}
		if prev, dup := seen[ver]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", ver, prev, base)
		}
		seen[ver] = base
		if applied[ver] {
			continue
		}
		out = append(out, migration{version: ver, file: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
        version BIGINT PRIMARY KEY,
        applied_at DATETIME(6) NOT NULL
    ) ENGINE=InnoDB;`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func loadApplied(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		m[v] = true
	}
	return m, rows.Err()
}

func recordApplied(ctx context.Context, db *sql.DB, version int) error {
	_, err := db.ExecContext(ctx, "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)", version, time.Now().UTC())
	return err
}

func parseVersion(name string) (int, error) {
	// Expect prefix like 0001_...
	i := strings.IndexByte(name, '_')
	if i <= 0 {
		return 0, fmt.Errorf("missing prefix number")
	}
	return strconv.Atoi(name[:i])
}
