package model

import (
	"errors"
	"strings"
	"time"
)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeStopped   Outcome = "stopped"
	OutcomeAbandoned Outcome = "abandoned"
)

// SessionRecord logs one finished breathing, meditation or detox session.
type SessionRecord struct {
	ID         string
	Kind       string
	Outcome    Outcome
	PlannedSec int
	ElapsedSec int
	EndedAt    time.Time
}

func (r SessionRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: session record id is required")
	}
	if strings.TrimSpace(r.Kind) == "" {
		return errors.New("model: session record kind is required")
	}
	switch r.Outcome {
	case OutcomeCompleted, OutcomeStopped, OutcomeAbandoned:
	default:
		return errors.New("model: invalid session outcome")
	}
	if r.EndedAt.IsZero() {
		return errors.New("model: session record ended_at is required")
	}
	return nil
}
