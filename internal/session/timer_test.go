package session

import (
	"errors"
	"testing"
)

func TestBoxBreathingSeventeenTicks(t *testing.T) {
	box, ok := PatternByName("box")
	if !ok {
		t.Fatal("expected box breathing pattern")
	}
	s, err := NewState(BreathingConfig(box))
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	if s.Phase != PhasePrepare || s.Remaining != 4 {
		t.Fatalf("unexpected initial state: %+v", s)
	}

	boundaries := map[int]struct {
		phase     Phase
		remaining int
	}{
		4:  {PhaseInhale, 4},
		8:  {PhaseHold, 4},
		12: {PhaseExhale, 4},
		16: {PhasePause, 4},
		17: {PhasePause, 3},
	}
	for i := 1; i <= 17; i++ {
		s = Tick(s)
		if want, ok := boundaries[i]; ok {
			if s.Phase != want.phase || s.Remaining != want.remaining {
				t.Fatalf("tick %d: got %s/%d, want %s/%d", i, s.Phase, s.Remaining, want.phase, want.remaining)
			}
		}
	}
	if !s.Active || s.PhaseLabel() != "Pause" {
		t.Fatalf("expected active breathing in pause, got %+v", s)
	}
}

func TestBreathingSkipsZeroPhases(t *testing.T) {
	p := Pattern{Name: "no-hold", Inhale: 2, Hold: 0, Exhale: 3, Pause: 0}
	s, err := NewState(BreathingConfig(p))
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	var seen []Phase
	last := s.Phase
	for i := 0; i < 4+2+3; i++ {
		s = Tick(s)
		if s.Phase != last {
			seen = append(seen, s.Phase)
			last = s.Phase
		}
	}
	want := []Phase{PhaseInhale, PhaseExhale, PhaseInhale}
	if len(seen) != len(want) {
		t.Fatalf("unexpected phase sequence: %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("unexpected phase sequence: %v", seen)
		}
	}
}

func TestRelaxationPatternHoldsSeven(t *testing.T) {
	p, ok := PatternByName("4-7-8")
	if !ok {
		t.Fatal("expected 4-7-8 pattern")
	}
	s, _ := NewState(BreathingConfig(p))
	for i := 0; i < 8; i++ {
		s = Tick(s)
	}
	if s.Phase != PhaseHold || s.Remaining != 7 {
		t.Fatalf("expected hold 7 after prepare+inhale, got %s/%d", s.Phase, s.Remaining)
	}
}

func TestMeditationCountdownCompletes(t *testing.T) {
	s, err := NewState(MeditationConfig(2))
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	if s.Remaining != 120 {
		t.Fatalf("expected 120 seconds, got %d", s.Remaining)
	}
	for i := 0; i < 119; i++ {
		s = Tick(s)
	}
	if s.Completed() || s.Remaining != 1 {
		t.Fatalf("expected 1 second left, got %+v", s)
	}
	s = Tick(s)
	if !s.Completed() || s.Active || s.Remaining != 0 {
		t.Fatalf("expected completion at zero, got %+v", s)
	}
	again := Tick(s)
	if again != s {
		t.Fatalf("expected inactive state unchanged, got %+v", again)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []Config{
		MeditationConfig(0),
		DetoxConfig(-1),
		BreathingConfig(Pattern{Name: "bad", Inhale: 0, Exhale: 4}),
		{Kind: Kind("nap"), DurationSec: 10},
	}
	for _, cfg := range cases {
		if _, err := NewState(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig for %+v, got %v", cfg, err)
		}
	}
}

func TestProgress(t *testing.T) {
	s, _ := NewState(DetoxConfig(30))
	for i := 0; i < 900; i++ {
		s = Tick(s)
	}
	if s.Progress() != 0.5 {
		t.Fatalf("expected half progress, got %f", s.Progress())
	}
}
