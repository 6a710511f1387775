package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidMood = errors.New("model: invalid mood")

type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodCalm       Mood = "calm"
	MoodSad        Mood = "sad"
	MoodAnxious    Mood = "anxious"
	MoodTired      Mood = "tired"
	MoodThoughtful Mood = "thoughtful"
	MoodNeutral    Mood = "neutral"
)

// DefaultMood is reported when nothing has been logged yet.
const DefaultMood = MoodCalm

var moodOrder = []Mood{MoodHappy, MoodCalm, MoodSad, MoodAnxious, MoodTired, MoodThoughtful, MoodNeutral}

var moodEmoji = map[Mood]string{
	MoodHappy:      "😊",
	MoodCalm:       "😌",
	MoodSad:        "😢",
	MoodAnxious:    "😟",
	MoodTired:      "😴",
	MoodThoughtful: "🤔",
	MoodNeutral:    "😐",
}

func Moods() []Mood {
	out := make([]Mood, len(moodOrder))
	copy(out, moodOrder)
	return out
}

func (m Mood) IsValid() bool {
	_, ok := moodEmoji[m]
	return ok
}

func (m Mood) Emoji() string {
	return moodEmoji[m]
}

func (m Mood) Title() string {
	if m == "" {
		return ""
	}
	s := string(m)
	return strings.ToUpper(s[:1]) + s[1:]
}

func ParseMood(raw string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(raw)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMood, raw)
	}
	return m, nil
}

type MoodEntry struct {
	ID    string    `json:"id"`
	Label Mood      `json:"mood"`
	At    time.Time `json:"timestamp"`
}

func (e MoodEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: mood entry id is required")
	}
	if !e.Label.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMood, e.Label)
	}
	if e.At.IsZero() {
		return errors.New("model: mood entry timestamp is required")
	}
	return nil
}

// CurrentMood returns the label of the most recent entry.
func CurrentMood(history []MoodEntry) Mood {
	if len(history) == 0 {
		return DefaultMood
	}
	return history[len(history)-1].Label
}
