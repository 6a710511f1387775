package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New("model: invalid conversation role")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

func (t Turn) Validate() error {
	if !t.Role.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, t.Role)
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: turn text is required")
	}
	return nil
}

// ReflectionThreshold is the number of turns required before a
// conversation can be reflected on.
const ReflectionThreshold = 4

type Conversation struct {
	Turns []Turn `json:"turns"`
}

func (c *Conversation) Append(role Role, text string) error {
	t := Turn{Role: role, Text: strings.TrimSpace(text)}
	if err := t.Validate(); err != nil {
		return err
	}
	c.Turns = append(c.Turns, t)
	return nil
}

func (c Conversation) Len() int { return len(c.Turns) }

func (c Conversation) CanReflect() bool {
	return len(c.Turns) >= ReflectionThreshold
}

// LastUserText returns the newest user turn, used for intent analysis.
func (c Conversation) LastUserText() (string, bool) {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleUser {
			return c.Turns[i].Text, true
		}
	}
	return "", false
}

func (c Conversation) Snapshot() []Turn {
	out := make([]Turn, len(c.Turns))
	copy(out, c.Turns)
	return out
}
