package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/panel"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/open chat", TypeOpen},
		{"close", TypeClose},
		{"/mood Happy", TypeMood},
		{"/breathe", TypeBreathe},
		{"/breathe box", TypeBreathe},
		{"/remind meditation 07:30", TypeRemind},
		{"/remind mood off", TypeRemind},
		{"/name Asha Rao", TypeName},
		{"/help", TypeHelp},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, _ := Parse("/open Poem")
	if cmd.Open.Kind != panel.KindPoem {
		t.Fatalf("unexpected open kind: %+v", cmd.Open)
	}
	cmd, _ = Parse("/mood Anxious")
	if cmd.Mood.Mood != model.MoodAnxious {
		t.Fatalf("unexpected mood: %+v", cmd.Mood)
	}
	cmd, _ = Parse("/breathe")
	if cmd.Breathe.Pattern.Name != "4-7-8 Relaxation" {
		t.Fatalf("unexpected default pattern: %+v", cmd.Breathe)
	}
	cmd, _ = Parse("/breathe deep")
	if cmd.Breathe.Pattern.Name != "Deep Calm" {
		t.Fatalf("unexpected pattern: %+v", cmd.Breathe)
	}
	cmd, _ = Parse("/remind checkin 7:05")
	if cmd.Remind.Kind != model.ReminderMoodCheckIn || cmd.Remind.At != "07:05" || cmd.Remind.Off {
		t.Fatalf("unexpected remind args: %+v", cmd.Remind)
	}
	cmd, _ = Parse("/name  Asha  Rao ")
	if cmd.Name.Name != "Asha Rao" {
		t.Fatalf("unexpected name: %q", cmd.Name.Name)
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	cases := map[string]ErrorCode{
		"":                   ErrCodeEmptyInput,
		"/":                  ErrCodeEmptyInput,
		"/dance":             ErrCodeUnknownCommand,
		"/open":              ErrCodeInvalidArgument,
		"/open garden":       ErrCodeInvalidArgument,
		"/mood ecstatic":     ErrCodeInvalidArgument,
		"/breathe square":    ErrCodeInvalidArgument,
		"/remind nap 10:00":  ErrCodeInvalidArgument,
		"/remind mood 25:00": ErrCodeInvalidArgument,
		"/remind mood":       ErrCodeInvalidArgument,
		"/name":              ErrCodeInvalidArgument,
	}
	for in, want := range cases {
		_, err := Parse(in)
		if Code(err) != want {
			t.Fatalf("parse %q: expected %s, got %v", in, want, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/remind meditation 06:45")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Remind: func(a RemindArgs) (Result, error) {
			called = true
			if a.Kind != model.ReminderDailyMeditation || a.At != "06:45" {
				t.Fatalf("unexpected args: %+v", a)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("close")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

func TestExecuteHelpNeedsNoHandler(t *testing.T) {
	cmd, _ := Parse("/help")
	res, err := Execute(cmd, Handlers{})
	if err != nil || res.Message == "" {
		t.Fatalf("unexpected help result: %+v %v", res, err)
	}
}
