package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/manas/internal/model"
)

// Snapshot is the whole persisted companion state. It is saved after
// every mutating action.
type Snapshot struct {
	UserName     string
	Progression  model.Progression
	Conversation []model.Turn
	Moods        []model.MoodEntry
	Reminders    []model.Reminder
}

func EmptySnapshot() Snapshot {
	return Snapshot{Progression: model.NewProgression()}
}

// Normalized repairs the progression and drops entries that fail
// validation, so hand-edited state never breaks startup.
func (s Snapshot) Normalized() Snapshot {
	out := Snapshot{UserName: strings.TrimSpace(s.UserName), Progression: s.Progression.Normalized()}
	for _, t := range s.Conversation {
		if t.Validate() == nil {
			out.Conversation = append(out.Conversation, t)
		}
	}
	for _, m := range s.Moods {
		if m.Validate() == nil {
			out.Moods = append(out.Moods, m)
		}
	}
	for _, r := range s.Reminders {
		if r.Validate() == nil {
			out.Reminders = append(out.Reminders, r)
		}
	}
	return out
}

type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, in Snapshot) error
	AddSessionRecord(ctx context.Context, in model.SessionRecord) error
	ListSessionRecords(ctx context.Context, limit int) ([]model.SessionRecord, error)
	Close() error
}

// Open picks the JSON file store for *.json paths and SQLite otherwise.
func Open(path string) (Store, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewFileStore(path), nil
	}
	return OpenSQLite(path)
}
