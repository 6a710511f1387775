package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/manas/internal/model"
)

// FileStore keeps the snapshot in a single JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileState struct {
	UserName            string         `json:"userName,omitempty"`
	Level               int            `json:"level"`
	Points              int            `json:"points"`
	PointsToLevel       int            `json:"pointsToLevel"`
	GlowBerries         int            `json:"glowBerries"`
	ConversationHistory []fileTurn     `json:"conversationHistory"`
	MoodHistory         []fileMood     `json:"moodHistory"`
	Reminders           []fileReminder `json:"reminders,omitempty"`
	Sessions            []fileSession  `json:"sessions,omitempty"`

	// Browser-era documents count points as wp.
	WP            *int `json:"wp,omitempty"`
	WPToNextLevel *int `json:"wpToNextLevel,omitempty"`
}

// fileTurn reads both the flat {role, text} shape and the browser-era
// {role: "model", parts: [{text}]} shape.
type fileTurn struct {
	Role  string     `json:"role"`
	Text  string     `json:"text,omitempty"`
	Parts []filePart `json:"parts,omitempty"`
}

type filePart struct {
	Text string `json:"text"`
}

func (t fileTurn) turn() model.Turn {
	role := model.Role(t.Role)
	if t.Role == "model" {
		role = model.RoleAssistant
	}
	text := t.Text
	if text == "" {
		parts := make([]string, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, p.Text)
		}
		text = strings.Join(parts, "\n")
	}
	return model.Turn{Role: role, Text: text}
}

type fileMood struct {
	ID        string     `json:"id,omitempty"`
	Mood      model.Mood `json:"mood"`
	Timestamp time.Time  `json:"timestamp"`
}

// entry derives a stable id for moods saved without one, so reloading the
// same document yields the same ids.
func (f fileMood) entry() model.MoodEntry {
	id := f.ID
	if id == "" {
		name := string(f.Mood) + "@" + f.Timestamp.UTC().Format(time.RFC3339Nano)
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
	}
	return model.MoodEntry{ID: id, Label: f.Mood, At: f.Timestamp}
}

type fileReminder struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	At        string    `json:"at"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

type fileSession struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Outcome    string    `json:"outcome"`
	PlannedSec int       `json:"plannedSec"`
	ElapsedSec int       `json:"elapsedSec"`
	EndedAt    time.Time `json:"endedAt"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: strings.TrimSpace(path)}
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.read()
	if err != nil {
		return Snapshot{}, err
	}
	out := Snapshot{
		UserName: state.UserName,
		Progression: model.Progression{
			Level:         state.Level,
			Points:        state.Points,
			PointsToLevel: state.PointsToLevel,
			GlowBerries:   state.GlowBerries,
		},
	}
	if state.PointsToLevel == 0 && state.WPToNextLevel != nil {
		out.Progression.PointsToLevel = *state.WPToNextLevel
		if state.WP != nil {
			out.Progression.Points = *state.WP
		}
	}
	for _, t := range state.ConversationHistory {
		out.Conversation = append(out.Conversation, t.turn())
	}
	for _, md := range state.MoodHistory {
		out.Moods = append(out.Moods, md.entry())
	}
	for _, r := range state.Reminders {
		out.Reminders = append(out.Reminders, model.Reminder{
			ID: r.ID, Kind: model.ReminderKind(r.Kind), At: r.At, Enabled: r.Enabled, CreatedAt: r.CreatedAt,
		})
	}
	return out.Normalized(), nil
}

func (s *FileStore) Save(_ context.Context, in Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.read()
	if err != nil {
		return err
	}
	p := in.Progression.Normalized()
	state.UserName = in.UserName
	state.Level, state.Points, state.PointsToLevel, state.GlowBerries = p.Level, p.Points, p.PointsToLevel, p.GlowBerries
	state.WP, state.WPToNextLevel = nil, nil
	state.ConversationHistory = make([]fileTurn, 0, len(in.Conversation))
	for _, t := range in.Conversation {
		state.ConversationHistory = append(state.ConversationHistory, fileTurn{Role: string(t.Role), Text: t.Text})
	}
	state.MoodHistory = make([]fileMood, 0, len(in.Moods))
	for _, md := range in.Moods {
		state.MoodHistory = append(state.MoodHistory, fileMood{ID: md.ID, Mood: md.Label, Timestamp: md.At})
	}
	state.Reminders = state.Reminders[:0]
	for _, r := range in.Reminders {
		state.Reminders = append(state.Reminders, fileReminder{
			ID: r.ID, Kind: string(r.Kind), At: r.At, Enabled: r.Enabled, CreatedAt: r.CreatedAt.UTC(),
		})
	}
	return s.write(state)
}

func (s *FileStore) AddSessionRecord(_ context.Context, in model.SessionRecord) error {
	if err := in.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.read()
	if err != nil {
		return err
	}
	state.Sessions = append(state.Sessions, fileSession{
		ID: in.ID, Kind: in.Kind, Outcome: string(in.Outcome),
		PlannedSec: in.PlannedSec, ElapsedSec: in.ElapsedSec, EndedAt: in.EndedAt.UTC(),
	})
	return s.write(state)
}

func (s *FileStore) ListSessionRecords(_ context.Context, limit int) ([]model.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]model.SessionRecord, 0, len(state.Sessions))
	for _, rec := range state.Sessions {
		out = append(out, model.SessionRecord{
			ID: rec.ID, Kind: rec.Kind, Outcome: model.Outcome(rec.Outcome),
			PlannedSec: rec.PlannedSec, ElapsedSec: rec.ElapsedSec, EndedAt: rec.EndedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndedAt.After(out[j].EndedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FileStore) read() (fileState, error) {
	var state fileState
	if s.path == "" {
		return state, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("read state: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return state, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("decode state %s: %w", s.path, err)
	}
	return state, nil
}

func (s *FileStore) write(state fileState) error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.path)
}
