package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/panel"
	"github.com/sandeepkv93/manas/internal/session"
)

type Type string

const (
	TypeOpen    Type = "open"
	TypeClose   Type = "close"
	TypeMood    Type = "mood"
	TypeBreathe Type = "breathe"
	TypeRemind  Type = "remind"
	TypeName    Type = "name"
	TypeHelp    Type = "help"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type OpenArgs struct {
	Kind panel.Kind
}

type MoodArgs struct {
	Mood model.Mood
}

type BreatheArgs struct {
	Pattern session.Pattern
}

// RemindArgs sets a daily reminder; Off disables it instead.
type RemindArgs struct {
	Kind model.ReminderKind
	At   string
	Off  bool
}

type NameArgs struct {
	Name string
}

type Command struct {
	Type    Type
	Raw     string
	Open    *OpenArgs
	Mood    *MoodArgs
	Breathe *BreatheArgs
	Remind  *RemindArgs
	Name    *NameArgs
}

// Usage lists the palette syntax shown in help.
var Usage = []string{
	"/open <feature>",
	"/close",
	"/mood <happy|calm|sad|anxious|tired|thoughtful|neutral>",
	"/breathe [box|4-7-8|deep]",
	"/remind <meditation|mood> <HH:MM|off>",
	"/name <your name>",
	"/help",
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeOpen:
		return parseOpen(input, args)
	case TypeClose:
		return Command{Type: TypeClose, Raw: input}, nil
	case TypeMood:
		return parseMood(input, args)
	case TypeBreathe:
		return parseBreathe(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeName:
		return parseName(input, args)
	case TypeHelp:
		return Command{Type: TypeHelp, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseOpen(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "open requires a feature"}
	}
	kind, err := panel.ParseKind(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown feature: %s", args[0])}
	}
	return Command{Type: TypeOpen, Raw: raw, Open: &OpenArgs{Kind: kind}}, nil
}

func parseMood(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mood requires exactly one label"}
	}
	mood, err := model.ParseMood(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown mood: %s", args[0])}
	}
	return Command{Type: TypeMood, Raw: raw, Mood: &MoodArgs{Mood: mood}}, nil
}

func parseBreathe(raw string, args []string) (Command, error) {
	pattern := session.Patterns[0]
	if len(args) > 0 {
		p, ok := session.PatternByName(strings.Join(args, " "))
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown pattern: %s", strings.Join(args, " "))}
		}
		pattern = p
	}
	return Command{Type: TypeBreathe, Raw: raw, Breathe: &BreatheArgs{Pattern: pattern}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires kind and time"}
	}
	kind, err := model.ParseReminderKind(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown reminder: %s", args[0])}
	}
	if strings.EqualFold(args[1], "off") {
		return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Kind: kind, Off: true}}, nil
	}
	hour, minute, err := model.ParseClock(args[1])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("time must be HH:MM, got %s", args[1])}
	}
	at := fmt.Sprintf("%02d:%02d", hour, minute)
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Kind: kind, At: at}}, nil
}

func parseName(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "name requires a value"}
	}
	return Command{Type: TypeName, Raw: raw, Name: &NameArgs{Name: name}}, nil
}

// Code extracts the CommandError code from err, or "" for other errors.
func Code(err error) ErrorCode {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
