package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTimerActive   = errors.New("session: a timer is already active")
	ErrInvalidConfig = errors.New("session: invalid timer config")
)

type Kind string

const (
	KindBreathing  Kind = "breathing"
	KindMeditation Kind = "meditation"
	KindDetox      Kind = "detox"
)

type Phase string

const (
	PhasePrepare  Phase = "prepare"
	PhaseInhale   Phase = "inhale"
	PhaseHold     Phase = "hold"
	PhaseExhale   Phase = "exhale"
	PhasePause    Phase = "pause"
	PhaseRunning  Phase = "running"
	PhaseComplete Phase = "complete"
	PhaseStopped  Phase = "stopped"
)

// PrepareSeconds is the lead-in before the first inhale.
const PrepareSeconds = 4

// Pattern is a named breathing rhythm in whole seconds. Hold and Pause may
// be zero, in which case the phase is skipped.
type Pattern struct {
	Name   string
	Inhale int
	Hold   int
	Exhale int
	Pause  int
}

var Patterns = []Pattern{
	{Name: "4-7-8 Relaxation", Inhale: 4, Hold: 7, Exhale: 8, Pause: 0},
	{Name: "Box Breathing", Inhale: 4, Hold: 4, Exhale: 4, Pause: 4},
	{Name: "Deep Calm", Inhale: 6, Hold: 2, Exhale: 8, Pause: 0},
}

func (p Pattern) Validate() error {
	if p.Inhale <= 0 || p.Exhale <= 0 || p.Hold < 0 || p.Pause < 0 {
		return fmt.Errorf("%w: pattern %q", ErrInvalidConfig, p.Name)
	}
	return nil
}

func (p Pattern) duration(ph Phase) int {
	switch ph {
	case PhaseInhale:
		return p.Inhale
	case PhaseHold:
		return p.Hold
	case PhaseExhale:
		return p.Exhale
	case PhasePause:
		return p.Pause
	case PhasePrepare:
		return PrepareSeconds
	default:
		return 0
	}
}

// next returns the phase after ph, skipping zero-length phases.
func (p Pattern) next(ph Phase) Phase {
	order := []Phase{PhaseInhale, PhaseHold, PhaseExhale, PhasePause}
	idx := -1
	for i, candidate := range order {
		if candidate == ph {
			idx = i
			break
		}
	}
	for step := 1; step <= len(order); step++ {
		candidate := order[(idx+step)%len(order)]
		if p.duration(candidate) > 0 {
			return candidate
		}
	}
	return PhaseInhale
}

// PatternByName matches a pattern by full name, or by a case-insensitive
// prefix such as "box" or "4-7-8".
func PatternByName(name string) (Pattern, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Pattern{}, false
	}
	for _, p := range Patterns {
		if strings.ToLower(p.Name) == needle {
			return p, true
		}
	}
	for _, p := range Patterns {
		if strings.HasPrefix(strings.ToLower(p.Name), needle) {
			return p, true
		}
	}
	return Pattern{}, false
}

type Config struct {
	Kind        Kind
	Pattern     Pattern
	DurationSec int
}

func BreathingConfig(p Pattern) Config {
	return Config{Kind: KindBreathing, Pattern: p}
}

func MeditationConfig(minutes int) Config {
	return Config{Kind: KindMeditation, DurationSec: minutes * 60}
}

func DetoxConfig(minutes int) Config {
	return Config{Kind: KindDetox, DurationSec: minutes * 60}
}

func (c Config) Validate() error {
	switch c.Kind {
	case KindBreathing:
		return c.Pattern.Validate()
	case KindMeditation, KindDetox:
		if c.DurationSec <= 0 {
			return fmt.Errorf("%w: %s duration must be positive", ErrInvalidConfig, c.Kind)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, c.Kind)
	}
}

// State is a snapshot of one timed exercise.
type State struct {
	Kind      Kind
	Pattern   Pattern
	Phase     Phase
	Remaining int
	Total     int
	Elapsed   int
	Active    bool
}

func NewState(cfg Config) (State, error) {
	if err := cfg.Validate(); err != nil {
		return State{}, err
	}
	s := State{Kind: cfg.Kind, Active: true}
	if cfg.Kind == KindBreathing {
		s.Pattern = cfg.Pattern
		s.Phase = PhasePrepare
		s.Remaining = PrepareSeconds
		return s, nil
	}
	s.Phase = PhaseRunning
	s.Remaining = cfg.DurationSec
	s.Total = cfg.DurationSec
	return s, nil
}

// Tick advances s by one second. Inactive states are returned unchanged.
func Tick(s State) State {
	if !s.Active {
		return s
	}
	s.Elapsed++
	if s.Remaining > 0 {
		s.Remaining--
	}
	if s.Remaining > 0 {
		return s
	}
	if s.Kind == KindBreathing {
		s.Phase = s.Pattern.next(s.Phase)
		s.Remaining = s.Pattern.duration(s.Phase)
		return s
	}
	s.Phase = PhaseComplete
	s.Active = false
	return s
}

func (s State) Completed() bool {
	return s.Phase == PhaseComplete
}

// Progress reports the fraction of a countdown that has elapsed. Breathing
// reports progress within the current phase.
func (s State) Progress() float64 {
	total := s.Total
	if s.Kind == KindBreathing {
		total = s.Pattern.duration(s.Phase)
	}
	if total <= 0 {
		return 0
	}
	pct := float64(total-s.Remaining) / float64(total)
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

func (s State) PhaseLabel() string {
	if s.Phase == "" {
		return ""
	}
	p := string(s.Phase)
	return strings.ToUpper(p[:1]) + p[1:]
}
