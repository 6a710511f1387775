package commands

import (
	"fmt"
	"strings"
)

type Result struct {
	Message string
}

type Handlers struct {
	Open    func(OpenArgs) (Result, error)
	Close   func() (Result, error)
	Mood    func(MoodArgs) (Result, error)
	Breathe func(BreatheArgs) (Result, error)
	Remind  func(RemindArgs) (Result, error)
	Name    func(NameArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeOpen:
		if handlers.Open == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Open(*cmd.Open)
	case TypeClose:
		if handlers.Close == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Close()
	case TypeMood:
		if handlers.Mood == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Mood(*cmd.Mood)
	case TypeBreathe:
		if handlers.Breathe == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Breathe(*cmd.Breathe)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remind(*cmd.Remind)
	case TypeName:
		if handlers.Name == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Name(*cmd.Name)
	case TypeHelp:
		return Result{Message: strings.Join(Usage, "  ")}, nil
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
