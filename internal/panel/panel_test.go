package panel

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/manas/internal/session"
)

func TestKindsHaveTitles(t *testing.T) {
	for _, k := range Kinds() {
		if k.Title() == "" {
			t.Fatalf("missing title for %q", k)
		}
	}
	if _, err := ParseKind("art"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestOpenCloseLifecycle(t *testing.T) {
	runner := &session.Runner{}
	c := NewController(runner)
	if c.IsOpen() {
		t.Fatal("expected closed controller")
	}

	tr, err := c.Open(KindChat)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if tr.Opened != KindChat || tr.Closed != "" || c.Kind() != KindChat {
		t.Fatalf("unexpected transition: %+v", tr)
	}
	chatToken := c.Token()
	if !c.IsCurrent(chatToken) {
		t.Fatal("expected chat token current")
	}

	closed := c.Close()
	if closed.Closed != KindChat || c.IsOpen() {
		t.Fatalf("unexpected close transition: %+v", closed)
	}
	if c.IsCurrent(chatToken) {
		t.Fatal("expected stale token after close")
	}
	if again := c.Close(); !again.Noop {
		t.Fatalf("expected close on closed controller to be a no-op, got %+v", again)
	}
}

func TestOpenSameKindIsIdempotent(t *testing.T) {
	runner := &session.Runner{}
	c := NewController(runner)
	_, _ = c.Open(KindBreathe)
	gen, err := runner.Start(session.BreathingConfig(session.Patterns[1]))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	token := c.Token()

	tr, err := c.Open(KindBreathe)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !tr.Noop || c.Token() != token {
		t.Fatalf("expected no-op reopen, got %+v", tr)
	}
	if !runner.Active() || runner.Generation() != gen {
		t.Fatal("expected timer untouched by same-kind open")
	}
}

func TestOpenOtherKindStopsTimer(t *testing.T) {
	runner := &session.Runner{}
	c := NewController(runner)
	_, _ = c.Open(KindMeditation)
	gen, _ := runner.Start(session.MeditationConfig(5))
	oldToken := c.Token()

	tr, err := c.Open(KindMood)
	if err != nil {
		t.Fatalf("open mood: %v", err)
	}
	if tr.Closed != KindMeditation || tr.Opened != KindMood {
		t.Fatalf("unexpected transition: %+v", tr)
	}
	if tr.Stopped == nil || tr.Stopped.Award {
		t.Fatalf("expected timer stopped without award, got %+v", tr.Stopped)
	}
	if runner.Active() {
		t.Fatal("expected timer inactive")
	}
	if _, ok := runner.Tick(gen); ok {
		t.Fatal("expected queued tick discarded")
	}
	if c.IsCurrent(oldToken) {
		t.Fatal("expected previous token stale")
	}
}

func TestCloseStopsEveryTimerKind(t *testing.T) {
	configs := map[Kind]session.Config{
		KindBreathe:    session.BreathingConfig(session.Patterns[0]),
		KindMeditation: session.MeditationConfig(2),
		KindDetox:      session.DetoxConfig(30),
	}
	for kind, cfg := range configs {
		runner := &session.Runner{}
		c := NewController(runner)
		_, _ = c.Open(kind)
		gen, err := runner.Start(cfg)
		if err != nil {
			t.Fatalf("start %s: %v", kind, err)
		}
		for i := 0; i < 7; i++ {
			runner.Tick(gen)
		}
		tr := c.Close()
		if tr.Stopped == nil || runner.Active() {
			t.Fatalf("%s: expected timer stopped on close", kind)
		}
	}
}

func TestOpenUnknownKind(t *testing.T) {
	c := NewController(nil)
	if _, err := c.Open(Kind("art")); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if c.IsOpen() {
		t.Fatal("expected controller to remain closed")
	}
}
