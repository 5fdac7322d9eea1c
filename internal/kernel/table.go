package kernel

import (
	"sync"

	"github.com/talismancer/schedcore/internal/config"
	"github.com/talismancer/schedcore/internal/log"
)

// Policy is the scheduler/timer-hook variant injected into a Table at
// construction time (spec.md §9). Implementations live in
// internal/kernel/policy; this interface is declared here, rather than
// there, so that Table (which must call it under its own lock) never
// imports the subpackage that implements it.
type Policy interface {
	// Name identifies the policy, for Getlev/panics on unsupported ops.
	Name() config.Policy

	// PickNext selects the next unit to dispatch from procs, called with
	// the table lock held. Returns the zero Unit if nothing is runnable.
	PickNext(procs []*Proc) Unit

	// OnTick runs the per-tick accounting of spec.md §4.7 for the
	// currently running unit (nil if no unit is running on this CPU),
	// called with the table lock held.
	OnTick(running Unit)

	// ShouldYield reports whether a timer IRQ should force a yield for
	// the currently running unit (spec.md §4.7, "Yield-on-tick policy").
	ShouldYield(running Unit) bool

	// Boost resets every process for a priority-boost event: MLFQ's
	// levelOfQueue and ticks return to 0 (spec.md §4.5.3, §4.7); a no-op
	// under the other two policies.
	Boost(procs []*Proc)

	// SupportsThreads reports whether thread_create/exit/join are legal
	// under this policy (default policy only, spec.md §4.8).
	SupportsThreads() bool
}

// Table is the fixed-size process table and everything that guards it: the
// single table lock (spec.md §5), the monotonic pid/tid counters (spec.md
// §3 invariant 7), and the injected scheduling policy.
type Table struct {
	lock tableLock
	cond *sync.Cond

	cfg    *config.Config
	policy Policy

	procs []*Proc

	nextPID int
	nextTID int

	ticksMu      sync.Mutex
	ticks        uint64
	boostPending bool

	// init is the process to which orphans are re-parented (spec.md §3
	// invariant 5). Set by the caller via Userinit.
	init ProcRef
}

// NewTable allocates a Table with cfg.NProc slots, all UNUSED, governed by
// policy. Mirrors xv6's static ptable plus pid/tid counters seeded at 1
// (pid/tid 0 means "free", spec.md §3).
func NewTable(cfg *config.Config, policy Policy) *Table {
	t := &Table{
		cfg:     cfg,
		policy:  policy,
		procs:   make([]*Proc, cfg.NProc),
		nextPID: 1,
		nextTID: 1,
	}
	for i := range t.procs {
		t.procs[i] = &Proc{slot: i}
	}
	t.cond = sync.NewCond(&t.lock)
	return t
}

// Policy exposes the active policy, e.g. for cmd/schedcore to print it.
func (t *Table) Policy() Policy { return t.policy }

// Config exposes the table's configuration.
func (t *Table) Config() *config.Config { return t.cfg }

// ref stamps a ProcRef for p, valid as long as p.generation doesn't change
// again (i.e. until the slot is reaped and reallocated).
func ref(p *Proc) ProcRef { return ProcRef{slot: p.slot, generation: p.generation} }

// Get resolves a ProcRef back to its *Proc, returning ok=false if the slot
// has since been reaped and reused (spec.md §9's stale-pointer hazard).
// Must be called with the table lock held.
func (t *Table) Get(r ProcRef) (*Proc, bool) {
	if !r.Valid() || r.slot < 0 || r.slot >= len(t.procs) {
		return nil, false
	}
	p := t.procs[r.slot]
	if p.generation != r.generation {
		return nil, false
	}
	return p, true
}

// byPID scans the table for a live process with the given pid. Must be
// called with the table lock held.
func (t *Table) byPID(pid int) *Proc {
	for _, p := range t.procs {
		if p.State != Unused && p.PID == pid {
			return p
		}
	}
	return nil
}

// ByPID is the exported, self-locking form of byPID, used by read-only
// callers (spec.md §5 allows read-only dumps outside the lock, but taking
// it here keeps the snapshot internally consistent).
func (t *Table) ByPID(pid int) (*Proc, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	p := t.byPID(pid)
	return p, p != nil
}

// Snapshot returns a point-in-time copy of every non-UNUSED process's
// (pid, name, state), for "ps"-style reporting.
type Snapshot struct {
	PID        int
	Name       string
	State      State
	QueueLevel int
	Priority   int
}

func (t *Table) Snapshot() []Snapshot {
	t.lock.Lock()
	defer t.lock.Unlock()
	out := make([]Snapshot, 0, len(t.procs))
	for _, p := range t.procs {
		if p.State == Unused {
			continue
		}
		out = append(out, Snapshot{PID: p.PID, Name: p.Name, State: p.State, QueueLevel: p.QueueLevel, Priority: p.Priority})
	}
	return out
}

// logTransition is a small helper so every state-machine mutation leaves a
// debug trail, matching the teacher's practice of logging at each
// significant kernel transition rather than only at the edges.
func logTransition(op string, p *Proc, from, to State) {
	log.Debugf("kernel: %s pid=%d %s -> %s", op, p.PID, from, to)
}
