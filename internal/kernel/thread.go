package kernel

import "github.com/talismancer/schedcore/internal/kernerr"

// pageSize is the page-alignment unit used when growing a process's
// address space for a new thread's user stack (spec.md §4.8: "grow the
// address space by one page (page-aligned up)").
const pageSize = 4096

// ThreadCreate allocates an UNUSED thread slot in p, builds its kernel
// stack/trap frame, grows p's address space for a user stack if the slot
// has never had one, and marks the thread RUNNABLE (spec.md §4.8). Legal
// only under the threaded policy; panics otherwise per spec.md §6
// ("Operations not supported under the selected policy abort via panic").
func (t *Table) ThreadCreate(p *Proc, entry Body) (int, error) {
	if !t.policy.SupportsThreads() {
		panic(kernerr.ErrUnsupportedOp)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	idx := -1
	for i, th := range p.Threads {
		if th == nil || th.State == Unused {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, kernerr.ErrNoThreadSlots
	}

	t.nextTID++
	tid := t.nextTID - 1

	if p.UStacks[idx] == 0 {
		if p.AddrSpace != nil {
			newSize, err := p.AddrSpace.Grow(roundUpPage(p.Sz + pageSize))
			if err != nil {
				return 0, err
			}
			p.Sz = newSize
		} else {
			p.Sz = roundUpPage(p.Sz + pageSize)
		}
		p.UStacks[idx] = p.Sz
	}

	p.Threads[idx] = &Thread{
		owner: p,
		TID:   tid,
		State: Runnable,
		step:  entry,
	}
	logTransition("thread_create", p, p.State, p.State)
	t.recomputeThreadedStateLocked(p)
	return tid, nil
}

func roundUpPage(sz uint64) uint64 {
	if r := sz % pageSize; r != 0 {
		sz += pageSize - r
	}
	return sz
}

// ThreadExit wakes any joiner sleeping on chan==th.TID, stores retval, and
// marks th ZOMBIE (spec.md §4.8). By convention th's goroutine does not
// run again afterwards, mirroring thread_exit's "does not return".
func (t *Table) ThreadExit(p *Proc, th *Thread, retval any) {
	if !t.policy.SupportsThreads() {
		panic(kernerr.ErrUnsupportedOp)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	th.Retval = retval
	logTransition("thread_exit", p, th.State, Zombie)
	th.State = Zombie
	t.recomputeThreadedStateLocked(p)
	t.wakeupLocked(th.TID)
	t.cond.Broadcast()
}

// ThreadJoin searches every process for a non-UNUSED thread with matching
// tid, called by caller (the joining thread). Per spec.md §4.8/§9 the
// search considers only threads belonging to a RUNNABLE (or RUNNING)
// process, so a thread whose owning process is SLEEPING is missed (see
// DESIGN.md and spec.md §9 open questions).
func (t *Table) ThreadJoin(caller Unit, tid int) (any, error) {
	if !t.policy.SupportsThreads() {
		panic(kernerr.ErrUnsupportedOp)
	}

	t.lock.Lock()

	_, th := t.findJoinableLocked(tid)
	if th == nil {
		t.lock.Unlock()
		return nil, kernerr.ErrNoSuchThread
	}

	for th.State != Zombie {
		t.lock.Unlock()
		t.Sleep(caller, tid)
		t.lock.Lock()
		_, th = t.findJoinableLocked(tid)
		if th == nil {
			t.lock.Unlock()
			return nil, kernerr.ErrNoSuchThread
		}
	}

	retval := th.Retval
	th.State = Unused
	th.Retval = nil
	th.step = nil
	owner := th.owner
	t.recomputeThreadedStateLocked(owner)
	t.lock.Unlock()
	return retval, nil
}

// findJoinableLocked implements the §4.8 scan. Must be called with the
// table lock held.
func (t *Table) findJoinableLocked(tid int) (*Proc, *Thread) {
	for _, p := range t.procs {
		if p.State != Runnable && p.State != Running {
			continue
		}
		for _, th := range p.Threads {
			if th != nil && th.State != Unused && th.TID == tid {
				return p, th
			}
		}
	}
	return nil, nil
}

// recomputeThreadedStateLocked re-derives p.State from its threads: it sets
// RUNNABLE when any thread is RUNNABLE or RUNNING, and ZOMBIE when every
// thread is UNUSED or ZOMBIE. In any other case (e.g. every live thread
// SLEEPING) p.State is left as it was, so a process is not moved out of
// RUNNABLE when its last runnable thread goes to sleep. EMBRYO and UNUSED
// processes are not touched. Must be called with the table lock held,
// after any thread-state mutation.
func (t *Table) recomputeThreadedStateLocked(p *Proc) {
	if p.State == Unused || p.State == Embryo {
		return
	}
	anyRunnable := false
	allDone := true
	for _, th := range p.Threads {
		if th == nil {
			continue
		}
		if th.State == Runnable || th.State == Running {
			anyRunnable = true
		}
		if th.State != Unused && th.State != Zombie {
			allDone = false
		}
	}
	switch {
	case anyRunnable:
		p.State = Runnable
	case allDone:
		p.State = Zombie
	}
}
