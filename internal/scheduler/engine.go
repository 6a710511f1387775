package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/manas/internal/model"
)

var (
	ErrInvalidFireTime  = errors.New("scheduler: invalid fire time")
	ErrEngineStopped    = errors.New("scheduler: engine stopped")
	ErrReminderDisabled = errors.New("scheduler: reminder disabled")
)

// Event is a reminder occurrence due at FireAt.
type Event struct {
	ReminderID string
	Kind       model.ReminderKind
	FireAt     time.Time
}

func (e Event) Message() string {
	switch e.Kind {
	case model.ReminderDailyMeditation:
		return "Time for your daily meditation. A few calm minutes await."
	case model.ReminderMoodCheckIn:
		return "How are you feeling? Take a moment to check in."
	default:
		return "Reminder: " + e.Kind.Label()
	}
}

type entry struct {
	event Event
	index int
}

type eventHeap []*entry

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	return h[i].event.FireAt.Before(h[j].event.FireAt)
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	item := x.(*entry)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Engine delivers reminder events on C() when they come due. At most one
// pending event exists per reminder id.
type Engine struct {
	mu      sync.Mutex
	queue   eventHeap
	byID    map[string]*entry
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64

	retryDelay time.Duration
}

// DefaultRetryDelay is how long an undelivered event waits before the
// engine offers it again.
const DefaultRetryDelay = time.Second

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		byID:   make(map[string]*entry),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),

		retryDelay: DefaultRetryDelay,
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.loop()
}

// Stop halts delivery and closes C. Safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

// Schedule queues ev, replacing any pending event for the same reminder.
func (e *Engine) Schedule(ev Event) error {
	if ev.FireAt.IsZero() || ev.ReminderID == "" {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	if existing, ok := e.byID[ev.ReminderID]; ok {
		existing.event = ev
		heap.Fix(&e.queue, existing.index)
	} else {
		item := &entry{event: ev}
		heap.Push(&e.queue, item)
		e.byID[ev.ReminderID] = item
	}
	e.signalWakeup()
	return nil
}

// ScheduleReminder queues the next daily occurrence of r after now.
func (e *Engine) ScheduleReminder(r model.Reminder, now time.Time) (Event, error) {
	if !r.Enabled {
		e.Cancel(r.ID)
		return Event{}, ErrReminderDisabled
	}
	next, err := r.NextAfter(now)
	if err != nil {
		return Event{}, err
	}
	ev := Event{ReminderID: r.ID, Kind: r.Kind, FireAt: next}
	return ev, e.Schedule(ev)
}

// Cancel drops the pending event for id and reports whether one existed.
func (e *Engine) Cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&e.queue, item.index)
	delete(e.byID, id)
	e.signalWakeup()
	return true
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// NextFire reports when the pending event for id is due.
func (e *Engine) NextFire(id string) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.byID[id]
	if !ok {
		return time.Time{}, false
	}
	return item.event.FireAt, true
}

// Dropped counts deliveries deferred because the consumer fell behind.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			now := time.Now()
			for _, ev := range e.popDue(now) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
					e.requeue(ev, now.Add(e.retryDelay))
				}
			}
		case <-e.wakeup:
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

// requeue offers ev again at at, unless the reminder was rescheduled or
// cancelled in the meantime.
func (e *Engine) requeue(ev Event, at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	if _, ok := e.byID[ev.ReminderID]; ok {
		return
	}
	item := &entry{event: Event{ReminderID: ev.ReminderID, Kind: ev.Kind, FireAt: at}}
	heap.Push(&e.queue, item)
	e.byID[ev.ReminderID] = item
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Event{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Event
	for len(e.queue) > 0 && !e.queue[0].event.FireAt.After(now) {
		item := heap.Pop(&e.queue).(*entry)
		delete(e.byID, item.event.ReminderID)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
