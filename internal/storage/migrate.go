package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// migration pairs the up and down scripts sharing a version prefix such as
// "0001_init".
type migration struct {
	version string
	up      string
	down    string
}

// MigrateUp applies every pending migration in version order. Applied
// versions are recorded, so running it again is a no-op.
func MigrateUp(db *sql.DB) error {
	migrations, applied, err := prepareMigrations(db)
	if err != nil {
		return err
	}
	for _, mg := range migrations {
		if applied[mg.version] {
			continue
		}
		if err := runMigration(db, mg.version, mg.up, func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)`,
				mg.version, time.Now().UTC().Format(sqliteTimeLayout))
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts applied migrations, newest first.
func MigrateDown(db *sql.DB) error {
	migrations, applied, err := prepareMigrations(db)
	if err != nil {
		return err
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		mg := migrations[i]
		if !applied[mg.version] {
			continue
		}
		if mg.down == "" {
			return fmt.Errorf("migration %s has no down script", mg.version)
		}
		if err := runMigration(db, mg.version, mg.down, func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = ?`, mg.version)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// AppliedVersions lists recorded migration versions in ascending order.
func AppliedVersions(db *sql.DB) ([]string, error) {
	if _, err := db.Exec(createMigrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func prepareMigrations(db *sql.DB) ([]migration, map[string]bool, error) {
	migrations, err := loadMigrations()
	if err != nil {
		return nil, nil, err
	}
	versions, err := AppliedVersions(db)
	if err != nil {
		return nil, nil, err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return migrations, applied, nil
}

func loadMigrations() ([]migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	byVersion := make(map[string]*migration)
	for _, name := range names {
		base := path.Base(name)
		var version string
		var up bool
		switch {
		case strings.HasSuffix(base, ".up.sql"):
			version, up = strings.TrimSuffix(base, ".up.sql"), true
		case strings.HasSuffix(base, ".down.sql"):
			version = strings.TrimSuffix(base, ".down.sql")
		default:
			continue
		}
		raw, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, readErr)
		}
		mg, ok := byVersion[version]
		if !ok {
			mg = &migration{version: version}
			byVersion[version] = mg
		}
		if up {
			mg.up = string(raw)
		} else {
			mg.down = string(raw)
		}
	}
	out := make([]migration, 0, len(byVersion))
	for _, mg := range byVersion {
		if mg.up == "" {
			return nil, fmt.Errorf("migration %s has no up script", mg.version)
		}
		out = append(out, *mg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func runMigration(db *sql.DB, version, script string, record func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", version, err)
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", version, err)
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", version, err)
	}
	return nil
}
