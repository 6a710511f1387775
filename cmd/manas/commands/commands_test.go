package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/storage"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func seedStore(t *testing.T, path string) {
	t.Helper()
	store := storage.NewFileStore(path)
	snap := storage.EmptySnapshot()
	snap.UserName = "Asha"
	snap.Progression.Award(120, "test")
	snap.Moods = []model.MoodEntry{
		{ID: "m1", Label: model.MoodSad, At: time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)},
		{ID: "m2", Label: model.MoodHappy, At: time.Date(2026, 1, 3, 8, 0, 0, 0, time.UTC)},
	}
	ctx := context.Background()
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec := model.SessionRecord{ID: "s1", Kind: "meditation", Outcome: model.OutcomeCompleted, PlannedSec: 120, ElapsedSec: 120, EndedAt: time.Now().UTC()}
	if err := store.AddSessionRecord(ctx, rec); err != nil {
		t.Fatalf("add session: %v", err)
	}
}

func TestStatsCommandPrintsProgression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	seedStore(t, path)

	out := runCommand(t, "stats", "--store", path, "--config", filepath.Join(dir, "missing.yaml"))
	if !strings.Contains(out, "Asha") {
		t.Fatalf("expected name in output, got %q", out)
	}
	if !strings.Contains(out, "Level:        2") || !strings.Contains(out, "Glow berries: 10") {
		t.Fatalf("unexpected progression output: %q", out)
	}
	if !strings.Contains(out, "meditation") || !strings.Contains(out, "2m00s") {
		t.Fatalf("expected session listing, got %q", out)
	}
}

func TestStatsCommandWithEmptyStore(t *testing.T) {
	dir := t.TempDir()
	out := runCommand(t, "stats", "--store", filepath.Join(dir, "state.json"), "--config", filepath.Join(dir, "missing.yaml"))
	if !strings.Contains(out, "Level:        1") || !strings.Contains(out, "No sessions yet") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestMoodsCommandListsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	seedStore(t, path)

	out := runCommand(t, "moods", "--store", path, "--config", filepath.Join(dir, "missing.yaml"), "--limit", "1")
	if !strings.Contains(out, "Happy") || strings.Contains(out, "Sad") {
		t.Fatalf("expected only the newest mood, got %q", out)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := map[int]string{0: "0s", 59: "59s", 60: "1m00s", 125: "2m05s"}
	for in, want := range cases {
		if got := formatSeconds(in); got != want {
			t.Fatalf("formatSeconds(%d) = %q, want %q", in, got, want)
		}
	}
}
