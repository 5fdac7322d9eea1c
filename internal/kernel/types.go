// Package kernel implements the process/thread table, its state machine,
// the sleep/wake/kill protocol and the fork/exit/wait lifecycle described
// in spec.md §3-§4 and §6. The three scheduling policies themselves live in
// the sibling internal/kernel/policy package and are injected into a Table
// at construction time (spec.md §9: "a policy trait/variant... chosen once
// at start-up, not per-record").
package kernel

import (
	"sync/atomic"

	"github.com/talismancer/schedcore/internal/collab"
)

// State is the state-machine position of a process or thread record
// (spec.md §3): UNUSED -> EMBRYO -> RUNNABLE -> RUNNING -> {RUNNABLE,
// SLEEPING, ZOMBIE} -> (reaped) -> UNUSED.
type State int

const (
	Unused State = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

func (s State) String() string {
	switch s {
	case Unused:
		return "UNUSED"
	case Embryo:
		return "EMBRYO"
	case Sleeping:
		return "SLEEPING"
	case Runnable:
		return "RUNNABLE"
	case Running:
		return "RUNNING"
	case Zombie:
		return "ZOMBIE"
	default:
		return "INVALID"
	}
}

// ProcRef is a non-owning reference to a process-table slot, stamped with
// the slot's generation at the time the reference was taken. spec.md §9
// recommends exactly this "arena-plus-generation" scheme so that a parent
// back-reference surviving across a reap-and-reuse of its slot can detect
// that it no longer names the process it once did, instead of silently
// aliasing whatever new tenant occupies the slot.
type ProcRef struct {
	slot       int
	generation uint64
}

// Valid reports whether r was ever assigned (the zero ProcRef, used for "no
// parent", is never Valid).
func (r ProcRef) Valid() bool { return r.generation != 0 }

// Proc is a process-table record (spec.md §3).
type Proc struct {
	slot       int
	generation uint64

	PID    int
	State  State
	Name   string
	Parent ProcRef
	killed atomic.Bool

	// Chan is the wait key, meaningful only while State == Sleeping, and
	// only under policies where the process itself (not a thread) is the
	// schedulable unit (spec.md §9, "channel location").
	Chan any

	AddrSpace collab.AddressSpace
	Sz        uint64
	Cwd       collab.Inode
	Ofile     []collab.File

	// QueueLevel, Ticks and Priority are the policy-specific fields of
	// spec.md §3. All three are always present on Proc (rather than boxed
	// behind a policy interface) the way the teacher keeps rarely-used
	// per-subsystem state as plain fields on Task guarded by a nil/zero
	// check, avoiding an allocation and a type assertion on every
	// scheduler pass. Only the active policy's fields are meaningful.
	QueueLevel int
	Ticks      int
	Priority   int

	// Threads, TID and UStacks back the threaded policy only (spec.md §3).
	Threads []*Thread
	TID     int
	UStacks []uint64

	step  Body
	calls int
}

// Killed reports whether kill(pid) has been called on this process. It is
// observed cooperatively: Table.Step makes the process exit when its
// current dispatch returns, and Wait fails for a killed caller.
func (p *Proc) Killed() bool { return p.killed.Load() }

// Thread is a thread-table record, used only under the threaded policy
// (spec.md §3).
type Thread struct {
	owner *Proc

	TID    int
	State  State
	Chan   any
	Retval any

	step  Body
	calls int
}

// Action is what a unit's Body reported when it last ran, standing in for
// the trap-path events that would otherwise drive the scheduler: a plain
// timer-quantum expiry, a voluntary yield, a sleep on a channel, or an
// exit. This is the concrete, testable rendering of spec.md §9's
// "coroutine control flow" note: rather than modeling swtch as a literal
// stackful context switch, each schedulable unit exposes a bounded
// Body callback that the CPU driver invokes once per dispatch and that
// reports, on return, which suspension point (§5: "a kernel thread may
// suspend only at explicit calls to sched()") it hit.
type Action int

const (
	// Continue means the unit used its whole quantum without reaching a
	// suspension point; the timer hook's accounting (MLFQ ticks, two-queue
	// yield-on-tick) applies as usual.
	Continue Action = iota
	// Yielded means the unit called yield voluntarily.
	Yielded
	// Slept means the unit called sleep(chan); Result.Chan names the key.
	Slept
	// Exited means the unit called exit() (or thread_exit for a thread).
	Exited
)

// Result is what a Body invocation reports.
type Result struct {
	Action Action
	Chan   any
	Retval any
}

// Body is one dispatch's worth of a schedulable unit's work. The CPU driver
// (internal/cpu.Machine, through Table.Step) calls Body(n) where n is the
// number of earlier dispatches of this unit, so the first call is Body(0);
// Body returns when it reaches a suspension point or when it has used up
// its simulated quantum.
type Body func(call int) Result

// Unit is a schedulable unit: a thread under the threaded policy, a
// process under the other two (spec.md §9, "channel location" /
// "schedulable unit"). It gives every policy a uniform handle regardless of
// which record actually backs it.
type Unit struct {
	Proc   *Proc
	Thread *Thread // nil except under the threaded policy
}

func (u Unit) valid() bool { return u.Proc != nil }

func (u Unit) state() State {
	if u.Thread != nil {
		return u.Thread.State
	}
	return u.Proc.State
}

func (u Unit) setState(s State) {
	if u.Thread != nil {
		u.Thread.State = s
		return
	}
	u.Proc.State = s
}

func (u Unit) chanKey() any {
	if u.Thread != nil {
		return u.Thread.Chan
	}
	return u.Proc.Chan
}

func (u Unit) setChan(c any) {
	if u.Thread != nil {
		u.Thread.Chan = c
		return
	}
	u.Proc.Chan = c
}

func (u Unit) body() (Body, int) {
	if u.Thread != nil {
		return u.Thread.step, u.Thread.calls
	}
	return u.Proc.step, u.Proc.calls
}

func (u Unit) bumpCalls() {
	if u.Thread != nil {
		u.Thread.calls++
		return
	}
	u.Proc.calls++
}

// PID identifies the owning process regardless of which record is the
// schedulable unit.
func (u Unit) PID() int { return u.Proc.PID }
