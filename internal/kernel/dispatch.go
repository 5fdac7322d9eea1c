package kernel

// Step is the per-CPU scheduler-loop body invoked by internal/cpu.Machine:
// it selects the next runnable unit via the active policy, dispatches its
// Body for one call, applies the resulting suspension (spec.md §5: "a
// kernel thread may suspend only at explicit calls to sched()"), runs the
// timer hook, and reports whether any unit was found to run. A false
// return means this CPU is idle this round. A unit whose process has been
// killed is made to exit once its Body returns, unless it already exited.
func (t *Table) Step(cpuID int) bool {
	t.lock.Lock()
	unit := t.policy.PickNext(t.procs)
	if !unit.valid() {
		t.lock.Unlock()
		return false
	}
	logTransition("dispatch", unit.Proc, unit.state(), Running)
	unit.setState(Running)
	body, call := unit.body()
	t.lock.Unlock()

	if body == nil {
		// A unit with no Body (e.g. userinit's root process before its
		// entry point is wired up) simply yields this round.
		t.Yield(unit)
		return true
	}

	result := body(call)

	t.lock.Lock()
	unit.bumpCalls()
	t.lock.Unlock()

	if unit.Proc.Killed() && result.Action != Exited {
		t.Exit(unit.Proc)
		t.Tick(cpuID, Unit{})
		return true
	}

	switch result.Action {
	case Slept:
		t.Sleep(unit, result.Chan)
		t.Tick(cpuID, Unit{})
	case Exited:
		if unit.Thread != nil {
			t.ThreadExit(unit.Proc, unit.Thread, result.Retval)
		} else {
			t.Exit(unit.Proc)
		}
		t.Tick(cpuID, Unit{})
	default: // Continue or Yielded
		forceYield := t.Tick(cpuID, unit)
		if result.Action == Yielded || forceYield {
			t.lock.Lock()
			if unit.state() == Running {
				unit.setState(Runnable)
			}
			t.lock.Unlock()
		}
	}
	return true
}
