package model

import "testing"

func TestNewProgressionDefaults(t *testing.T) {
	p := NewProgression()
	if p.Level != 1 || p.Points != 0 || p.PointsToLevel != 100 || p.GlowBerries != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestAwardRejectsNonPositive(t *testing.T) {
	p := NewProgression()
	for _, pts := range []int{0, -5} {
		if events := p.Award(pts, "nothing"); events != nil {
			t.Fatalf("expected no events for %d, got %#v", pts, events)
		}
	}
	if p != NewProgression() {
		t.Fatalf("expected unchanged progression, got %+v", p)
	}
}

func TestAwardBelowThreshold(t *testing.T) {
	p := NewProgression()
	events := p.Award(15, "Logging Mood")
	if len(events) != 1 || events[0].Kind != EventAwarded {
		t.Fatalf("expected one award event, got %#v", events)
	}
	if events[0].Message() != "+15 WP for Logging Mood!" {
		t.Fatalf("unexpected message: %q", events[0].Message())
	}
	if p.Points != 15 || p.Level != 1 {
		t.Fatalf("unexpected progression: %+v", p)
	}
}

func TestAwardExactThresholdLevelsOnce(t *testing.T) {
	p := NewProgression()
	events := p.Award(100, "exact")
	levelUps := countLevelUps(events)
	if levelUps != 1 {
		t.Fatalf("expected 1 level-up, got %d", levelUps)
	}
	if p.Level != 2 || p.Points != 0 || p.PointsToLevel != 150 || p.GlowBerries != 10 {
		t.Fatalf("unexpected progression after exact threshold: %+v", p)
	}
}

func TestAwardCrossingTwoThresholds(t *testing.T) {
	p := NewProgression()
	// 100 for level 2, then 150 for level 3, 5 left over.
	events := p.Award(255, "big")
	if got := countLevelUps(events); got != 2 {
		t.Fatalf("expected 2 level-ups, got %d", got)
	}
	if p.Level != 3 || p.Points != 5 || p.PointsToLevel != 225 {
		t.Fatalf("unexpected progression: %+v", p)
	}
	if events[len(events)-1].Message() != "Level Up! You are Level 3! (+10 berries)" {
		t.Fatalf("unexpected level-up message: %q", events[len(events)-1].Message())
	}
}

func TestAwardThresholdFloors(t *testing.T) {
	p := Progression{Level: 4, Points: 0, PointsToLevel: 225}
	p.Award(225, "floor")
	if p.PointsToLevel != 337 {
		t.Fatalf("expected floor(225*1.5)=337, got %d", p.PointsToLevel)
	}
}

func TestAwardSequenceKeepsInvariant(t *testing.T) {
	p := NewProgression()
	prevLevel := p.Level
	for i := 1; i <= 500; i++ {
		p.Award((i*37)%97+1, "seq")
		if p.Points < 0 || p.Points >= p.PointsToLevel {
			t.Fatalf("invariant broken at step %d: %+v", i, p)
		}
		if p.Level < prevLevel {
			t.Fatalf("level decreased at step %d: %d -> %d", i, prevLevel, p.Level)
		}
		prevLevel = p.Level
	}
}

func TestNormalizedRepairsLoadedState(t *testing.T) {
	p := Progression{Level: 0, Points: 130, PointsToLevel: 0}
	got := p.Normalized()
	if err := got.Validate(); err != nil {
		t.Fatalf("normalized state invalid: %v (%+v)", err, got)
	}
	if got.Level != 2 || got.Points != 30 {
		t.Fatalf("unexpected normalized state: %+v", got)
	}
}

func TestRatio(t *testing.T) {
	p := Progression{Level: 1, Points: 25, PointsToLevel: 100}
	if p.Ratio() != 0.25 {
		t.Fatalf("expected 0.25, got %f", p.Ratio())
	}
}

func countLevelUps(events []ProgressEvent) int {
	n := 0
	for _, e := range events {
		if e.Kind == EventLevelUp {
			n++
		}
	}
	return n
}
