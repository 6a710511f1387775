package panel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/manas/internal/session"
)

var ErrUnknownKind = errors.New("panel: unknown feature kind")

type Kind string

const (
	KindChat       Kind = "chat"
	KindMood       Kind = "mood"
	KindGoal       Kind = "goal"
	KindBreathe    Kind = "breathe"
	KindMeditation Kind = "meditation"
	KindDetox      Kind = "detox"
	KindWisdom     Kind = "wisdom"
	KindCave       Kind = "cave"
	KindPoem       Kind = "poem"
	KindIntent     Kind = "intent"
	KindQA         Kind = "qa"
	KindZones      Kind = "zones"
	KindSchedule   Kind = "schedule"
)

var order = []Kind{
	KindChat, KindMood, KindGoal, KindBreathe, KindMeditation, KindDetox,
	KindWisdom, KindCave, KindPoem, KindIntent, KindQA, KindZones, KindSchedule,
}

var titles = map[Kind]string{
	KindChat:       "Chat with Manas",
	KindMood:       "Log Your Mood",
	KindGoal:       "AI Goal Coach",
	KindBreathe:    "Breathing Guide",
	KindMeditation: "Guided Meditation",
	KindDetox:      "Digital Detox",
	KindWisdom:     "Nuru's Wisdom Stone",
	KindCave:       "Nuru's Echo Cave",
	KindPoem:       "Generate a Poem",
	KindIntent:     "Understand My Intent",
	KindQA:         "Analyze Text",
	KindZones:      "Safe Zone Locator",
	KindSchedule:   "Smart Scheduling",
}

// Kinds lists every feature in menu order.
func Kinds() []Kind {
	out := make([]Kind, len(order))
	copy(out, order)
	return out
}

func (k Kind) IsValid() bool {
	_, ok := titles[k]
	return ok
}

func (k Kind) Title() string {
	return titles[k]
}

func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
	return k, nil
}

// TimerStopper is the part of the session runner the controller needs.
type TimerStopper interface {
	Stop(award bool) (session.StopResult, bool)
}

// Transition reports what an Open or Close call did.
type Transition struct {
	Closed  Kind
	Opened  Kind
	Stopped *session.StopResult
	Token   uint64
	Noop    bool
}

// Controller keeps at most one feature open. Every presentation gets a
// fresh token; asynchronous results carry the token they were issued
// under and are applied only while it is still current.
type Controller struct {
	kind  Kind
	open  bool
	token uint64
	timer TimerStopper
}

func NewController(timer TimerStopper) Controller {
	return Controller{timer: timer}
}

func (c Controller) IsOpen() bool { return c.open }

func (c Controller) Kind() Kind {
	if !c.open {
		return ""
	}
	return c.kind
}

func (c Controller) Token() uint64 { return c.token }

// IsCurrent reports whether a result issued under token may be applied.
func (c Controller) IsCurrent(token uint64) bool {
	return c.open && token == c.token
}

// Open presents kind. Opening the feature that is already open is a no-op
// that leaves its view and timer untouched.
func (c *Controller) Open(kind Kind) (Transition, error) {
	if !kind.IsValid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if c.open && c.kind == kind {
		return Transition{Opened: kind, Token: c.token, Noop: true}, nil
	}
	tr := Transition{}
	if c.open {
		closed := c.Close()
		tr.Closed = closed.Closed
		tr.Stopped = closed.Stopped
	}
	c.kind = kind
	c.open = true
	c.token++
	tr.Opened = kind
	tr.Token = c.token
	return tr, nil
}

// Close stops any active timer without awarding it and invalidates the
// current token. Closing an already closed controller is a no-op.
func (c *Controller) Close() Transition {
	if !c.open {
		return Transition{Noop: true, Token: c.token}
	}
	tr := Transition{Closed: c.kind}
	if c.timer != nil {
		if res, stopped := c.timer.Stop(false); stopped {
			tr.Stopped = &res
		}
	}
	c.open = false
	c.kind = ""
	c.token++
	tr.Token = c.token
	return tr
}
