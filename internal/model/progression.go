package model

import "fmt"

const (
	DefaultPointsToLevel = 100
	LevelGrowthNumerator = 3
	LevelGrowthDivisor   = 2
	GlowBerriesPerLevel  = 10
)

type EventKind string

const (
	EventAwarded EventKind = "awarded"
	EventLevelUp EventKind = "level_up"
)

// ProgressEvent is emitted by Award so the caller can surface a toast.
type ProgressEvent struct {
	Kind   EventKind
	Points int
	Reason string
	Level  int
}

func (e ProgressEvent) Message() string {
	switch e.Kind {
	case EventLevelUp:
		return fmt.Sprintf("Level Up! You are Level %d! (+%d berries)", e.Level, GlowBerriesPerLevel)
	default:
		return fmt.Sprintf("+%d WP for %s!", e.Points, e.Reason)
	}
}

type Progression struct {
	Level         int `json:"level"`
	Points        int `json:"points"`
	PointsToLevel int `json:"pointsToLevel"`
	GlowBerries   int `json:"glowBerries"`
}

func NewProgression() Progression {
	return Progression{Level: 1, PointsToLevel: DefaultPointsToLevel}
}

// Award adds points and processes any level-ups. Non-positive awards are
// rejected without mutation.
func (p *Progression) Award(points int, reason string) []ProgressEvent {
	if points <= 0 {
		return nil
	}
	p.normalize()
	p.Points += points
	events := []ProgressEvent{{Kind: EventAwarded, Points: points, Reason: reason, Level: p.Level}}
	return append(events, p.levelUp()...)
}

func (p *Progression) levelUp() []ProgressEvent {
	var events []ProgressEvent
	for p.Points >= p.PointsToLevel {
		p.Points -= p.PointsToLevel
		p.Level++
		p.PointsToLevel = p.PointsToLevel * LevelGrowthNumerator / LevelGrowthDivisor
		if p.PointsToLevel <= 0 {
			p.PointsToLevel = 1
		}
		p.GlowBerries += GlowBerriesPerLevel
		events = append(events, ProgressEvent{Kind: EventLevelUp, Level: p.Level})
	}
	return events
}

func (p Progression) Snapshot() Progression {
	return p
}

func (p Progression) Ratio() float64 {
	if p.PointsToLevel <= 0 {
		return 0
	}
	return float64(p.Points) / float64(p.PointsToLevel)
}

// normalize repairs values loaded from older or hand-edited state.
func (p *Progression) normalize() {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.PointsToLevel <= 0 {
		p.PointsToLevel = DefaultPointsToLevel
	}
	if p.Points < 0 {
		p.Points = 0
	}
	if p.GlowBerries < 0 {
		p.GlowBerries = 0
	}
}

func (p Progression) Validate() error {
	if p.Level < 1 {
		return fmt.Errorf("model: level must be >= 1, got %d", p.Level)
	}
	if p.PointsToLevel <= 0 {
		return fmt.Errorf("model: pointsToLevel must be > 0, got %d", p.PointsToLevel)
	}
	if p.Points < 0 || p.Points >= p.PointsToLevel {
		return fmt.Errorf("model: points %d out of range [0,%d)", p.Points, p.PointsToLevel)
	}
	return nil
}

// Normalized returns a copy that satisfies Validate, applying any pending
// level-ups left in loaded state.
func (p Progression) Normalized() Progression {
	p.normalize()
	p.levelUp()
	return p
}
