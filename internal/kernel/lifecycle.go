package kernel

import "github.com/talismancer/schedcore/internal/kernerr"

// Exit closes every open file, releases cwd, wakes the parent, re-parents
// live children to init, and marks p ZOMBIE (spec.md §4.4). Under the
// threaded policy every live thread of p is also marked ZOMBIE here.
//
// Real xv6 never returns from exit(); here Exit returns to its caller (the
// process's own goroutine), which is expected to stop running immediately
// afterwards — the "never returns" contract is enforced by convention, not
// by the type system, the same way spec.md documents it as a behavioral
// contract rather than a mechanical one.
func (t *Table) Exit(p *Proc) {
	for i, f := range p.Ofile {
		if f != nil {
			f.Close()
			p.Ofile[i] = nil
		}
	}
	if p.Cwd != nil {
		p.Cwd.Put()
		p.Cwd = nil
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if parent, ok := t.Get(p.Parent); ok {
		t.wakeupLocked(ref(parent))
	}

	for _, c := range t.procs {
		if c.Parent == ref(p) && c.State != Unused {
			c.Parent = t.init
			if c.State == Zombie {
				if initProc, ok := t.Get(t.init); ok {
					t.wakeupLocked(ref(initProc))
				}
			}
		}
	}

	logTransition("exit", p, p.State, Zombie)
	p.State = Zombie
	if t.policy.SupportsThreads() {
		for _, th := range p.Threads {
			if th != nil && th.State != Unused {
				th.State = Zombie
			}
		}
	}
	t.cond.Broadcast()
}

// Wait reaps the first ZOMBIE child it finds, freeing its kernel
// resources, address space, and table slot (spec.md §4.4). It blocks the
// calling goroutine (sleeping "on the caller's own record as the channel")
// until a child becomes a ZOMBIE, and fails immediately if the caller has
// no children at all or has itself been killed.
func (t *Table) Wait(caller *Proc) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for {
		if caller.Killed() {
			return -1, kernerr.ErrKilled
		}

		haveChild := false
		for _, c := range t.procs {
			if c.Parent != ref(caller) || c.State == Unused {
				continue
			}
			haveChild = true
			if c.State == Zombie {
				pid := c.PID
				t.reapLocked(c)
				return pid, nil
			}
		}
		if !haveChild {
			return -1, kernerr.ErrNoChildren
		}

		logTransition("wait", caller, caller.State, Sleeping)
		caller.State = Sleeping
		caller.Chan = ref(caller)
		t.cond.Wait()
		caller.State = Runnable
		caller.Chan = nil
	}
}

// reapLocked releases a ZOMBIE child's kernel resources and returns its
// slot to UNUSED (spec.md §4.4). Must be called with the table lock held.
func (t *Table) reapLocked(c *Proc) {
	if c.AddrSpace != nil {
		c.AddrSpace.Close()
		c.AddrSpace = nil
	}
	if t.policy.SupportsThreads() {
		for i, th := range c.Threads {
			if th != nil {
				c.Threads[i] = nil
			}
		}
	}
	c.PID = 0
	c.Name = ""
	c.Parent = ProcRef{}
	c.Chan = nil
	c.Sz = 0
	c.Ofile = nil
	c.QueueLevel = 0
	c.Ticks = 0
	c.Priority = 0
	c.TID = 0
	c.UStacks = nil
	c.step = nil
	c.calls = 0
	c.killed.Store(false)
	c.State = Unused
}

// Kill sets pid's killed flag and, if it (or any of its sleeping threads)
// is SLEEPING, flips it to RUNNABLE so it observes the flag promptly
// (spec.md §4.4). Returns ErrNoSuchPid if pid does not name a live
// process.
func (t *Table) Kill(pid int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	p := t.byPID(pid)
	if p == nil {
		return kernerr.ErrNoSuchPid
	}
	p.killed.Store(true)

	woke := false
	if t.policy.SupportsThreads() {
		for _, th := range p.Threads {
			if th != nil && th.State == Sleeping {
				th.State = Runnable
				woke = true
			}
		}
	}

	if p.State == Sleeping {
		logTransition("kill", p, p.State, Runnable)
		p.State = Runnable
		woke = true
	}
	if woke {
		t.cond.Broadcast()
	}
	return nil
}
