package kernel

// Sleep blocks the calling goroutine until Wakeup(chanKey) (or Kill of u's
// owner) transitions u back to RUNNABLE (spec.md §4.6). It is the direct
// analogue of sleep(chan, lk): because this implementation has a single
// table lock rather than the xv6 fine-grained per-subsystem locks,
// "acquire the table lock and release lk" collapses to simply taking the
// table lock here — the caller is never expected to already hold it.
//
// u.Chan is cleared on return, matching sleep()'s "On resumption, clear
// chan".
func (t *Table) Sleep(u Unit, chanKey any) {
	t.lock.Lock()
	defer t.lock.Unlock()

	u.setChan(chanKey)
	logTransition("sleep", u.Proc, u.state(), Sleeping)
	u.setState(Sleeping)
	for u.state() == Sleeping {
		t.cond.Wait()
	}
	u.setChan(nil)
}

// Wakeup flips every unit sleeping on chanKey to RUNNABLE (spec.md §4.6).
// Under the threaded policy every sleeping thread of every process is
// checked (spec.md §4.6: "wake every SLEEPING thread within each process
// whose process state is RUNNABLE" — kept in wakeThreadsLocked, which
// only wakes threads of a RUNNABLE or RUNNING process).
func (t *Table) Wakeup(chanKey any) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.wakeupLocked(chanKey)
}

func (t *Table) wakeupLocked(chanKey any) {
	woke := false
	for _, p := range t.procs {
		if p.State == Unused {
			continue
		}
		// Process-level sleep (e.g. Wait() sleeping on its own ProcRef)
		// applies regardless of policy: wait() always operates at
		// process granularity, even under the threaded policy.
		if p.State == Sleeping && p.Chan == chanKey {
			logTransition("wakeup", p, p.State, Runnable)
			p.State = Runnable
			woke = true
		}
		if t.policy.SupportsThreads() {
			woke = t.wakeThreadsLocked(p, chanKey) || woke
		}
	}
	if woke {
		t.cond.Broadcast()
	}
}

func (t *Table) wakeThreadsLocked(p *Proc, chanKey any) bool {
	if p.State != Runnable && p.State != Running {
		return false
	}
	woke := false
	for _, th := range p.Threads {
		if th != nil && th.State == Sleeping && th.Chan == chanKey {
			th.State = Runnable
			woke = true
		}
	}
	return woke
}
