package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseMood(t *testing.T) {
	m, err := ParseMood("  Happy ")
	if err != nil || m != MoodHappy {
		t.Fatalf("expected happy, got %q err=%v", m, err)
	}
	if _, err := ParseMood("grumpy"); !errors.Is(err, ErrInvalidMood) {
		t.Fatalf("expected ErrInvalidMood, got %v", err)
	}
	if MoodThoughtful.Title() != "Thoughtful" {
		t.Fatalf("unexpected title: %q", MoodThoughtful.Title())
	}
}

func TestCurrentMood(t *testing.T) {
	if CurrentMood(nil) != DefaultMood {
		t.Fatal("expected default mood for empty history")
	}
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	history := []MoodEntry{
		{ID: "a", Label: MoodSad, At: now},
		{ID: "b", Label: MoodHappy, At: now.Add(time.Minute)},
	}
	if CurrentMood(history) != MoodHappy {
		t.Fatalf("expected latest mood happy, got %q", CurrentMood(history))
	}
}

func TestConversationAppendAndReflect(t *testing.T) {
	var c Conversation
	if err := c.Append(RoleUser, "   "); err == nil {
		t.Fatal("expected blank turn to be rejected")
	}
	if err := c.Append(Role("system"), "hi"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	_ = c.Append(RoleAssistant, "Hello")
	_ = c.Append(RoleUser, "I feel stuck")
	_ = c.Append(RoleAssistant, "Tell me more")
	if c.CanReflect() {
		t.Fatal("expected reflection disabled below threshold")
	}
	_ = c.Append(RoleUser, "work is a lot")
	if !c.CanReflect() {
		t.Fatal("expected reflection enabled at threshold")
	}
	last, ok := c.LastUserText()
	if !ok || last != "work is a lot" {
		t.Fatalf("unexpected last user text: %q ok=%v", last, ok)
	}
}

func TestReminderNextAfter(t *testing.T) {
	rem := Reminder{ID: "r1", Kind: ReminderMoodCheckIn, At: "09:30", Enabled: true}
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid reminder: %v", err)
	}
	from := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	next, err := rem.NextAfter(from)
	if err != nil {
		t.Fatalf("next after: %v", err)
	}
	if !next.Equal(time.Date(2026, 2, 9, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected same-day occurrence: %s", next)
	}
	next, _ = rem.NextAfter(time.Date(2026, 2, 9, 9, 30, 0, 0, time.UTC))
	if !next.Equal(time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected next-day occurrence, got %s", next)
	}
}

func TestReminderValidateRejectsBadInput(t *testing.T) {
	rem := Reminder{ID: "r1", Kind: ReminderKind("other"), At: "09:30"}
	if err := rem.Validate(); !errors.Is(err, ErrInvalidReminderKind) {
		t.Fatalf("expected ErrInvalidReminderKind, got %v", err)
	}
	rem.Kind = ReminderDailyMeditation
	rem.At = "25:99"
	if err := rem.Validate(); !errors.Is(err, ErrInvalidReminderTime) {
		t.Fatalf("expected ErrInvalidReminderTime, got %v", err)
	}
	if k, err := ParseReminderKind("mood"); err != nil || k != ReminderMoodCheckIn {
		t.Fatalf("unexpected kind parse: %q %v", k, err)
	}
}

func TestDailyQuoteStableWithinDay(t *testing.T) {
	morning := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	night := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	if DailyQuote(morning) != DailyQuote(night) {
		t.Fatalf("expected one quote per day, got %q and %q", DailyQuote(morning), DailyQuote(night))
	}

	seen := make(map[string]bool)
	for i := 0; i < len(dailyQuotes); i++ {
		seen[DailyQuote(morning.AddDate(0, 0, i))] = true
	}
	if len(seen) != len(dailyQuotes) {
		t.Fatalf("expected consecutive days to rotate through all quotes, saw %d", len(seen))
	}
}
