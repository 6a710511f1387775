package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/manas/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	rec := model.SessionRecord{
		ID:         "rec-rt-1",
		Kind:       "meditation",
		Outcome:    model.OutcomeCompleted,
		PlannedSec: 300,
		ElapsedSec: 300,
		EndedAt:    time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC),
	}
	if err := store.AddSessionRecord(t.Context(), rec); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}
	got, err := store.ListSessionRecords(t.Context(), 0)
	if err != nil {
		t.Fatalf("list after roundtrip failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != rec.ID || !got[0].EndedAt.Equal(rec.EndedAt) || got[0].Outcome != rec.Outcome {
		t.Fatalf("unexpected records after roundtrip: %#v", got)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "twice.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up #%d: %v", i+1, err)
		}
	}
	versions, err := AppliedVersions(db)
	if err != nil {
		t.Fatalf("applied versions: %v", err)
	}
	if len(versions) != 1 || versions[0] != "0001_init" {
		t.Fatalf("unexpected applied versions: %v", versions)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	versions, err = AppliedVersions(db)
	if err != nil {
		t.Fatalf("applied versions after down: %v", err)
	}
	if len(versions) != 0 {
		t.Fatalf("expected no applied versions after down, got %v", versions)
	}
}

func TestLoadMigrationsPairsScripts(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	for _, mg := range migrations {
		if mg.up == "" || mg.down == "" {
			t.Fatalf("migration %s is missing a script", mg.version)
		}
	}
}
