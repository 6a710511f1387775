package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/manas/internal/model"
)

// Fixed-width so stored timestamps sort lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// OpenSQLite opens (creating if needed) the database at path and applies
// migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	out := EmptySnapshot()

	row := s.db.QueryRowContext(ctx, `
		SELECT user_name, level, points, points_to_level, glow_berries
		FROM profile WHERE id = 1`)
	p := &out.Progression
	err := row.Scan(&out.UserName, &p.Level, &p.Points, &p.PointsToLevel, &p.GlowBerries)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("load profile: %w", err)
	}

	turns, err := s.loadTurns(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	out.Conversation = turns

	moods, err := s.loadMoods(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	out.Moods = moods

	reminders, err := s.loadReminders(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	out.Reminders = reminders
	return out.Normalized(), nil
}

// Save replaces the stored state with in inside one transaction. Mood
// entries are append-only and keyed by id.
func (s *SQLiteStore) Save(ctx context.Context, in Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p := in.Progression.Normalized()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO profile (id, user_name, level, points, points_to_level, glow_berries, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_name = excluded.user_name,
			level = excluded.level,
			points = excluded.points,
			points_to_level = excluded.points_to_level,
			glow_berries = excluded.glow_berries,
			updated_at = excluded.updated_at`,
		in.UserName, p.Level, p.Points, p.PointsToLevel, p.GlowBerries, mustTime(s.now()),
	); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM conversation_turns`); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	for i, t := range in.Conversation {
		if _, err = tx.ExecContext(ctx, `INSERT INTO conversation_turns (seq, role, text) VALUES (?, ?, ?)`,
			i, string(t.Role), t.Text); err != nil {
			return fmt.Errorf("save turn %d: %w", i, err)
		}
	}

	for _, m := range in.Moods {
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO mood_entries (id, mood, recorded_at) VALUES (?, ?, ?)`,
			m.ID, string(m.Label), mustTime(m.At)); err != nil {
			return fmt.Errorf("save mood %s: %w", m.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}
	for _, r := range in.Reminders {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO reminders (id, kind, at_clock, enabled, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			r.ID, string(r.Kind), r.At, boolInt(r.Enabled), mustTime(r.CreatedAt)); err != nil {
			return fmt.Errorf("save reminder %s: %w", r.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddSessionRecord(ctx context.Context, in model.SessionRecord) error {
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_records (id, kind, outcome, planned_sec, elapsed_sec, ended_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Kind, string(in.Outcome), in.PlannedSec, in.ElapsedSec, mustTime(in.EndedAt),
	)
	return err
}

// ListSessionRecords returns the newest records first.
func (s *SQLiteStore) ListSessionRecords(ctx context.Context, limit int) ([]model.SessionRecord, error) {
	args := make([]any, 0, 1)
	query := `SELECT id, kind, outcome, planned_sec, elapsed_sec, ended_at FROM session_records ORDER BY ended_at DESC` +
		applyLimit(&args, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SessionRecord, 0)
	for rows.Next() {
		var rec model.SessionRecord
		var outcome, ended string
		if err := rows.Scan(&rec.ID, &rec.Kind, &outcome, &rec.PlannedSec, &rec.ElapsedSec, &ended); err != nil {
			return nil, err
		}
		rec.Outcome = model.Outcome(outcome)
		if rec.EndedAt, err = parseRequiredTime(ended); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTurns(ctx context.Context) ([]model.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, text FROM conversation_turns ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	defer rows.Close()

	var out []model.Turn
	for rows.Next() {
		var role, text string
		if err := rows.Scan(&role, &text); err != nil {
			return nil, err
		}
		out = append(out, model.Turn{Role: model.Role(role), Text: text})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadMoods(ctx context.Context) ([]model.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, mood, recorded_at FROM mood_entries ORDER BY recorded_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("load moods: %w", err)
	}
	defer rows.Close()

	var out []model.MoodEntry
	for rows.Next() {
		var entry model.MoodEntry
		var label, at string
		if err := rows.Scan(&entry.ID, &label, &at); err != nil {
			return nil, err
		}
		entry.Label = model.Mood(label)
		if entry.At, err = parseRequiredTime(at); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadReminders(ctx context.Context) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, at_clock, enabled, created_at FROM reminders ORDER BY at_clock ASC`)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var kind, created string
		var enabled int
		if err := rows.Scan(&r.ID, &kind, &r.At, &enabled, &created); err != nil {
			return nil, err
		}
		r.Kind = model.ReminderKind(kind)
		r.Enabled = enabled == 1
		if r.CreatedAt, err = parseRequiredTime(created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyLimit(args *[]any, limit int) string {
	if limit <= 0 {
		return ""
	}
	*args = append(*args, limit)
	return " LIMIT ?"
}
