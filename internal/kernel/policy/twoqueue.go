package policy

import (
	"github.com/talismancer/schedcore/internal/config"
	"github.com/talismancer/schedcore/internal/kernel"
)

// TwoQueue implements spec.md §4.5.2: a high class (0, interactive) that
// round-robins and a low class (1, batch) that runs strict smallest-pid
// FCFS, with class 0 always preferred over class 1 when both have runnable
// work. Thread_* is unsupported under this policy.
type TwoQueue struct {
	lastClass0 int
}

// NewTwoQueue constructs the two-queue policy.
func NewTwoQueue() *TwoQueue { return &TwoQueue{lastClass0: -1} }

func (p *TwoQueue) Name() config.Policy { return config.PolicyTwoQueue }

func (p *TwoQueue) SupportsThreads() bool { return false }

// PickNext dispatches class 0 round robin whenever any class-0 process is
// runnable; otherwise dispatches the lowest-pid runnable class-1 process
// (spec.md §4.5.2: "class 1 never preempts a runnable class 0 process").
func (p *TwoQueue) PickNext(procs []*kernel.Proc) kernel.Unit {
	n := len(procs)
	if n == 0 {
		return kernel.Unit{}
	}
	for step := 1; step <= n; step++ {
		i := (p.lastClass0 + step) % n
		proc := procs[i]
		if proc.QueueLevel == 0 && (proc.State == kernel.Runnable || proc.State == kernel.Running) {
			p.lastClass0 = i
			return kernel.Unit{Proc: proc}
		}
	}

	var best *kernel.Proc
	for _, proc := range procs {
		if proc.QueueLevel != 1 {
			continue
		}
		if proc.State != kernel.Runnable && proc.State != kernel.Running {
			continue
		}
		if best == nil || proc.PID < best.PID {
			best = proc
		}
	}
	if best == nil {
		return kernel.Unit{}
	}
	return kernel.Unit{Proc: best}
}

// OnTick is a no-op: neither class accumulates per-tick priority state.
func (p *TwoQueue) OnTick(running kernel.Unit) {}

// ShouldYield yields class 0 on every tick (round robin) but never
// preempts a running class-1 process off the CPU on a timer tick (spec.md
// §4.5.2: class 1 runs to voluntary yield or block).
func (p *TwoQueue) ShouldYield(running kernel.Unit) bool {
	return running.Proc != nil && running.Proc.QueueLevel == 0
}

// Boost is a no-op: there is no queue-level decay to undo under this
// policy — a process's class is fixed at fork time.
func (p *TwoQueue) Boost(procs []*kernel.Proc) {}
