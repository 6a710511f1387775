package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidReminderKind = errors.New("model: invalid reminder kind")
	ErrInvalidReminderTime = errors.New("model: invalid reminder time")
)

type ReminderKind string

const (
	ReminderDailyMeditation ReminderKind = "daily_meditation"
	ReminderMoodCheckIn     ReminderKind = "mood_check_in"
)

func (k ReminderKind) IsValid() bool {
	switch k {
	case ReminderDailyMeditation, ReminderMoodCheckIn:
		return true
	default:
		return false
	}
}

func (k ReminderKind) Label() string {
	switch k {
	case ReminderDailyMeditation:
		return "Daily Meditation"
	case ReminderMoodCheckIn:
		return "Mood Check-in"
	default:
		return string(k)
	}
}

func ParseReminderKind(raw string) (ReminderKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "meditation", "daily_meditation", "daily-meditation":
		return ReminderDailyMeditation, nil
	case "mood", "checkin", "check-in", "mood_check_in", "mood-check-in":
		return ReminderMoodCheckIn, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReminderKind, raw)
	}
}

type Reminder struct {
	ID        string
	Kind      ReminderKind
	At        string
	Enabled   bool
	CreatedAt time.Time
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderKind, r.Kind)
	}
	if _, _, err := ParseClock(r.At); err != nil {
		return err
	}
	return nil
}

// NextAfter returns the next daily occurrence of the reminder strictly
// after from, in from's location.
func (r Reminder) NextAfter(from time.Time) (time.Time, error) {
	hour, minute, err := ParseClock(r.At)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := from.Date()
	candidate := time.Date(y, mo, d, hour, minute, 0, 0, from.Location())
	if !candidate.After(from) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(raw string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, raw)
	}
	return t.Hour(), t.Minute(), nil
}
