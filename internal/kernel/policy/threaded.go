// Package policy implements the three interchangeable scheduling
// policies of spec.md §4.5, each satisfying kernel.Policy. A Table is
// constructed with exactly one of these, chosen once at start-up
// (spec.md §9: "a policy trait/variant... chosen once at start-up, not
// per-record").
package policy

import (
	"github.com/talismancer/schedcore/internal/config"
	"github.com/talismancer/schedcore/internal/kernel"
)

// Threaded is the default policy (spec.md §4.5.1): per-thread round robin
// nested inside per-process round robin. It is the only policy under
// which thread_create/exit/join are legal.
type Threaded struct {
	lastProc int
}

// NewThreaded constructs the default policy.
func NewThreaded() *Threaded { return &Threaded{lastProc: -1} }

func (p *Threaded) Name() config.Policy { return config.PolicyThreaded }

func (p *Threaded) SupportsThreads() bool { return true }

// PickNext implements spec.md §4.5.1: starting just after the last
// dispatched process, scan table order for a RUNNABLE process; within it,
// scan its thread slots starting just after the current tid, wrapping,
// stopping after one full cycle, for a RUNNABLE thread. p.TID is updated
// to the dispatched thread's index so subsequent kernel code addresses the
// right thread.
func (p *Threaded) PickNext(procs []*kernel.Proc) kernel.Unit {
	n := len(procs)
	if n == 0 {
		return kernel.Unit{}
	}
	for step := 1; step <= n; step++ {
		i := (p.lastProc + step) % n
		proc := procs[i]
		if proc.State != kernel.Runnable && proc.State != kernel.Running {
			continue
		}
		if th := pickThread(proc); th != nil {
			p.lastProc = i
			return kernel.Unit{Proc: proc, Thread: th}
		}
	}
	return kernel.Unit{}
}

func pickThread(proc *kernel.Proc) *kernel.Thread {
	m := len(proc.Threads)
	if m == 0 {
		return nil
	}
	for step := 1; step <= m; step++ {
		j := (proc.TID + step) % m
		th := proc.Threads[j]
		if th != nil && th.State == kernel.Runnable {
			proc.TID = j
			return th
		}
	}
	return nil
}

// OnTick is a no-op: the threaded policy has no per-level accounting.
func (p *Threaded) OnTick(running kernel.Unit) {}

// ShouldYield always yields on a timer tick while something is running
// (spec.md §4.7: "Default: yield whenever the current process is RUNNING
// and the trap was a timer IRQ").
func (p *Threaded) ShouldYield(running kernel.Unit) bool {
	return running.Proc != nil
}

// Boost is a no-op: there is no queue-level concept under this policy.
func (p *Threaded) Boost(procs []*kernel.Proc) {}
