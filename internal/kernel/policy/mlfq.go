package policy

import (
	"github.com/talismancer/schedcore/internal/config"
	"github.com/talismancer/schedcore/internal/kernel"
)

// MLFQ implements spec.md §4.5.3: K priority queues, demotion on
// exhausting a level's quantum, and periodic priority boosting. Thread_*
// is unsupported under this policy.
type MLFQ struct {
	levels int
}

// NewMLFQ constructs the MLFQ policy with K queue levels (spec.md §4.5.3,
// config.Config.MLFQLevels).
func NewMLFQ(levels int) *MLFQ { return &MLFQ{levels: levels} }

func (p *MLFQ) Name() config.Policy { return config.PolicyMLFQ }

func (p *MLFQ) SupportsThreads() bool { return false }

// PickNext selects the runnable process minimizing the tuple (levelOfQueue,
// freshness, -priority, pid): lower queue level first, a process that has
// not yet used any of its current quantum before one that has, then
// highest priority, then lowest pid to break remaining ties (spec.md
// §4.5.3). If nothing is runnable, a priority boost is invoked once and
// the scan retried (spec.md §9: "if no runnable process exists at
// dispatch time, invoke priority boosting immediately").
func (p *MLFQ) PickNext(procs []*kernel.Proc) kernel.Unit {
	if best := p.pickRunnable(procs); best != nil {
		return kernel.Unit{Proc: best}
	}
	p.Boost(procs)
	if best := p.pickRunnable(procs); best != nil {
		return kernel.Unit{Proc: best}
	}
	return kernel.Unit{}
}

func (p *MLFQ) pickRunnable(procs []*kernel.Proc) *kernel.Proc {
	var best *kernel.Proc
	for _, proc := range procs {
		if proc.State != kernel.Runnable && proc.State != kernel.Running {
			continue
		}
		if best == nil || less(proc, best) {
			best = proc
		}
	}
	return best
}

// less reports whether a sorts before b in the (level, freshness,
// -priority, pid) tuple order.
func less(a, b *kernel.Proc) bool {
	if a.QueueLevel != b.QueueLevel {
		return a.QueueLevel < b.QueueLevel
	}
	af, bf := freshness(a), freshness(b)
	if af != bf {
		return af < bf
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.PID < b.PID
}

// freshness is 0 for a process that has not yet consumed any of its
// current quantum and 1 for one that has, so the former sorts first.
func freshness(p *kernel.Proc) int {
	if p.Ticks == 0 {
		return 0
	}
	return 1
}

// OnTick implements the §4.5.3 demotion rule: a process below the lowest
// queue accumulates ticks in its current quantum; once ticks reach
// 4*level+2 it is pushed down a level and its quantum resets.
func (p *MLFQ) OnTick(running kernel.Unit) {
	proc := running.Proc
	if proc == nil || proc.QueueLevel >= p.levels {
		return
	}
	proc.Ticks++
	if proc.Ticks >= 4*proc.QueueLevel+2 {
		proc.QueueLevel++
		proc.Ticks = 0
	}
}

// ShouldYield yields immediately after a demotion or boost reset a
// process's quantum, i.e. whenever its ticks count is back to zero
// (spec.md §4.7).
func (p *MLFQ) ShouldYield(running kernel.Unit) bool {
	return running.Proc != nil && running.Proc.Ticks == 0
}

// Boost resets every live process to queue level 0 with a fresh quantum,
// without touching Priority (spec.md §4.5.3, §4.7: "every 100 ticks,
// every process's levelOfQueue and ticks reset to 0").
func (p *MLFQ) Boost(procs []*kernel.Proc) {
	for _, proc := range procs {
		if proc.State == kernel.Unused {
			continue
		}
		proc.QueueLevel = 0
		proc.Ticks = 0
	}
}
