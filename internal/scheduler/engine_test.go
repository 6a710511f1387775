package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/manas/internal/model"
)

func TestEngineEmitsInFireOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Event{ReminderID: "later", FireAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Event{ReminderID: "sooner", FireAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ReminderID != "sooner" || second.ReminderID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ReminderID, second.ReminderID)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", engine.Pending())
	}
}

func TestScheduleReplacesPendingEventForSameReminder(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Event{ReminderID: "r1", FireAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(Event{ReminderID: "r1", FireAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending event, got %d", engine.Pending())
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ReminderID != "r1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestCancelRemovesPendingEvent(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	_ = engine.Schedule(Event{ReminderID: "keep", FireAt: now.Add(60 * time.Millisecond)})
	_ = engine.Schedule(Event{ReminderID: "drop", FireAt: now.Add(20 * time.Millisecond)})
	if !engine.Cancel("drop") {
		t.Fatal("expected cancel to find pending event")
	}
	if engine.Cancel("drop") {
		t.Fatal("second cancel should report nothing removed")
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ReminderID != "keep" {
		t.Fatalf("cancelled event was delivered: %+v", ev)
	}
}

func TestScheduleReminderUsesNextDailyOccurrence(t *testing.T) {
	engine := NewEngine(1)
	now := time.Date(2026, 2, 9, 21, 0, 0, 0, time.UTC)
	ev, err := engine.ScheduleReminder(model.Reminder{
		ID: "r1", Kind: model.ReminderDailyMeditation, At: "07:30", Enabled: true,
	}, now)
	if err != nil {
		t.Fatalf("schedule reminder: %v", err)
	}
	want := time.Date(2026, 2, 10, 7, 30, 0, 0, time.UTC)
	if !ev.FireAt.Equal(want) || ev.Kind != model.ReminderDailyMeditation {
		t.Fatalf("unexpected event: %+v", ev)
	}

	_, err = engine.ScheduleReminder(model.Reminder{ID: "r1", Kind: model.ReminderDailyMeditation, At: "07:30"}, now)
	if !errors.Is(err, ErrReminderDisabled) {
		t.Fatalf("expected ErrReminderDisabled, got %v", err)
	}
	if engine.Pending() != 0 {
		t.Fatalf("disabling should cancel the pending event, got %d", engine.Pending())
	}
}

func TestEngineRedeliversWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.retryDelay = 10 * time.Millisecond
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := engine.Schedule(Event{ReminderID: fmt.Sprintf("evt-%d", i), FireAt: at}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	deadline := time.Now().Add(time.Second)
	for engine.Dropped() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if engine.Dropped() == 0 {
		t.Fatalf("expected deferred deliveries > 0, got %d", engine.Dropped())
	}

	seen := make(map[string]bool)
	timeout := time.After(2 * time.Second)
	for len(seen) < 5 {
		select {
		case ev := <-engine.C():
			seen[ev.ReminderID] = true
		case <-timeout:
			t.Fatalf("expected every event delivered eventually, got %d", len(seen))
		}
	}
}

func TestRequeueSkipsRescheduledReminder(t *testing.T) {
	engine := NewEngine(1)
	fresh := time.Now().Add(time.Hour)
	if err := engine.Schedule(Event{ReminderID: "r1", FireAt: fresh}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	engine.requeue(Event{ReminderID: "r1"}, time.Now().Add(time.Second))
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending event, got %d", engine.Pending())
	}
	if at, ok := engine.NextFire("r1"); !ok || !at.Equal(fresh) {
		t.Fatalf("expected the newer schedule to win, got %v %v", at, ok)
	}
}

func TestEngineConcurrentScheduleDeliversAll(t *testing.T) {
	engine := NewEngine(1024)
	engine.Start()
	defer engine.Stop()

	const workers = 4
	const perWorker = 50
	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ev := Event{
					ReminderID: fmt.Sprintf("w%d-%d", w, i),
					Kind:       model.ReminderMoodCheckIn,
					FireAt:     now.Add(time.Duration((w+i)%30+5) * time.Millisecond),
				}
				if err := engine.Schedule(ev); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	for received := 0; received < workers*perWorker; received++ {
		waitEvent(t, engine.C(), 5*time.Second)
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}

func TestScheduleValidation(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Event{ReminderID: "bad"}); !errors.Is(err, ErrInvalidFireTime) {
		t.Fatalf("expected ErrInvalidFireTime, got %v", err)
	}
	engine.Stop()
	if err := engine.Schedule(Event{ReminderID: "late", FireAt: time.Now()}); !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
}

func TestEventMessagePerKind(t *testing.T) {
	med := Event{Kind: model.ReminderDailyMeditation}.Message()
	mood := Event{Kind: model.ReminderMoodCheckIn}.Message()
	if med == mood || med == "" {
		t.Fatalf("expected distinct messages: %q %q", med, mood)
	}
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
