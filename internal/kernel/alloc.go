package kernel

import (
	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/kernerr"
	"github.com/talismancer/schedcore/internal/log"
)

// allocate scans for an UNUSED slot, marks it EMBRYO, assigns a fresh pid,
// and initializes the policy-specific fields (spec.md §4.1). On any
// failure the slot is returned to UNUSED.
//
// The teacher's allocate() releases the table lock before the
// (potentially blocking) kernel-stack allocation and trap-frame layout;
// here that step is body/addrSpace construction, supplied by the caller as
// a func so the lock can likewise be released around it.
func (t *Table) allocate(name string, body Body) (*Proc, error) {
	t.lock.Lock()
	var p *Proc
	for _, cand := range t.procs {
		if cand.State == Unused {
			p = cand
			break
		}
	}
	if p == nil {
		t.lock.Unlock()
		return nil, kernerr.ErrNoSlots
	}
	p.State = Embryo
	p.PID = t.nextPID
	t.nextPID++
	p.generation++
	p.Name = name
	p.step = body
	p.calls = 0
	p.Chan = nil
	p.killed.Store(false)
	p.Sz = 0
	p.Ofile = make([]collab.File, t.cfg.NOFILE)

	switch t.policy.Name() {
	case "twoqueue":
		p.QueueLevel = p.PID & 1
	case "mlfq":
		p.QueueLevel = 0
		p.Ticks = 0
		p.Priority = defaultMLFQPriority
	default: // threaded
		p.Threads = make([]*Thread, t.cfg.NThread)
		p.UStacks = make([]uint64, t.cfg.NThread)
		p.TID = 0
	}
	t.lock.Unlock()

	if t.policy.SupportsThreads() {
		main, err := t.allocThreadLocked(p, 0, body)
		if err != nil {
			t.lock.Lock()
			p.State = Unused
			p.step = nil
			t.lock.Unlock()
			return nil, err
		}
		t.lock.Lock()
		p.Threads[0] = main
		t.lock.Unlock()
	}

	log.Debugf("kernel: allocate pid=%d name=%q", p.PID, name)
	return p, nil
}

// defaultMLFQPriority is the priority a newly allocated process starts at
// under the MLFQ policy. spec.md §3 bounds Priority to [0,10] but never
// names a default; we pick the midpoint, matching common xv6-MLFQ
// coursework defaults (see DESIGN.md).
const defaultMLFQPriority = 5

// allocThreadLocked builds a new thread record for tid-index i of p. Takes
// and releases the table lock around the (here, trivial) "kernel stack"
// construction, matching allocate()'s own lock discipline.
func (t *Table) allocThreadLocked(p *Proc, i int, body Body) (*Thread, error) {
	t.lock.Lock()
	t.nextTID++
	tid := t.nextTID - 1
	t.lock.Unlock()

	th := &Thread{
		owner: p,
		TID:   tid,
		State: Embryo,
		step:  body,
	}
	return th, nil
}
