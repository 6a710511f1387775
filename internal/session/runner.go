package session

// TickResult describes the outcome of one accepted tick.
type TickResult struct {
	State     State
	Completed bool
}

// StopResult describes the timer that a Stop call released.
type StopResult struct {
	State State
	Award bool
}

// Runner owns the single active timer. Every Start and Stop bumps the
// generation; ticks carrying an older generation are discarded, so a tick
// queued before Stop can never mutate state afterwards.
type Runner struct {
	state State
	gen   uint64
}

func (r *Runner) Active() bool {
	return r.state.Active
}

func (r *Runner) State() State {
	return r.state
}

func (r *Runner) Generation() uint64 {
	return r.gen
}

// Start begins a timer and returns the generation its ticks must carry.
// It fails without side effects when another timer is active.
func (r *Runner) Start(cfg Config) (uint64, error) {
	if r.state.Active {
		return 0, ErrTimerActive
	}
	s, err := NewState(cfg)
	if err != nil {
		return 0, err
	}
	r.gen++
	r.state = s
	return r.gen, nil
}

// Tick applies one tick for generation gen. The boolean is false when the
// tick is stale or no timer is active; the caller must not reschedule.
func (r *Runner) Tick(gen uint64) (TickResult, bool) {
	if gen != r.gen || !r.state.Active {
		return TickResult{}, false
	}
	r.state = Tick(r.state)
	res := TickResult{State: r.state, Completed: r.state.Completed()}
	if res.Completed {
		r.gen++
	}
	return res, true
}

// Stop releases the active timer. The boolean reports whether this call
// performed the stop; calling Stop on an idle runner is a no-op.
func (r *Runner) Stop(award bool) (StopResult, bool) {
	if !r.state.Active {
		return StopResult{}, false
	}
	r.gen++
	r.state.Active = false
	r.state.Phase = PhaseStopped
	return StopResult{State: r.state, Award: award}, true
}

// Reset clears a finished timer so its view can be discarded.
func (r *Runner) Reset() {
	if r.state.Active {
		return
	}
	r.state = State{}
}
