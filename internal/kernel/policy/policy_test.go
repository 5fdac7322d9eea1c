package policy

import (
	"testing"

	"github.com/talismancer/schedcore/internal/kernel"
)

func runnableProc(pid, queueLevel, ticks, priority int) *kernel.Proc {
	p := &kernel.Proc{PID: pid, State: kernel.Runnable}
	p.QueueLevel = queueLevel
	p.Ticks = ticks
	p.Priority = priority
	return p
}

func TestThreadedPickNextRoundRobinsProcesses(t *testing.T) {
	p1 := &kernel.Proc{PID: 1, State: kernel.Runnable, Threads: []*kernel.Thread{{TID: 10, State: kernel.Runnable}}}
	p2 := &kernel.Proc{PID: 2, State: kernel.Runnable, Threads: []*kernel.Thread{{TID: 20, State: kernel.Runnable}}}
	procs := []*kernel.Proc{p1, p2}

	th := NewThreaded()
	u1 := th.PickNext(procs)
	u2 := th.PickNext(procs)
	u3 := th.PickNext(procs)

	if u1.Proc != p1 || u2.Proc != p2 || u3.Proc != p1 {
		t.Fatalf("round-robin order = %v, %v, %v; want p1, p2, p1", u1.Proc.PID, u2.Proc.PID, u3.Proc.PID)
	}
}

func TestTwoQueuePrefersClassZero(t *testing.T) {
	class0a := runnableProc(100, 0, 0, 0)
	class1 := runnableProc(101, 1, 0, 0)
	class0b := runnableProc(102, 0, 0, 0)
	procs := []*kernel.Proc{class0a, class1, class0b}

	tq := NewTwoQueue()
	for i := 0; i < 6; i++ {
		u := tq.PickNext(procs)
		if u.Proc.QueueLevel != 0 {
			t.Fatalf("iteration %d dispatched class %d process while class 0 was runnable", i, u.Proc.QueueLevel)
		}
	}

	class0a.State = kernel.Zombie
	class0b.State = kernel.Zombie
	u := tq.PickNext(procs)
	if u.Proc != class1 {
		t.Fatalf("expected class 1 to run once class 0 is exhausted, got pid %d", u.Proc.PID)
	}
}

func TestTwoQueueClassOneIsSmallestPIDFirst(t *testing.T) {
	hi := runnableProc(103, 1, 0, 0)
	lo := runnableProc(101, 1, 0, 0)
	procs := []*kernel.Proc{hi, lo}

	tq := NewTwoQueue()
	u := tq.PickNext(procs)
	if u.Proc != lo {
		t.Fatalf("PickNext = pid %d, want lowest pid %d", u.Proc.PID, lo.PID)
	}
}

func TestMLFQPickNextOrdersByLevelThenFreshnessThenPriority(t *testing.T) {
	levelOne := runnableProc(1, 1, 0, 5)
	freshLevelZero := runnableProc(2, 0, 0, 5)
	usedLevelZero := runnableProc(3, 0, 1, 5)
	procs := []*kernel.Proc{levelOne, freshLevelZero, usedLevelZero}

	m := NewMLFQ(4)
	u := m.PickNext(procs)
	if u.Proc != freshLevelZero {
		t.Fatalf("PickNext = pid %d, want the fresh level-0 process (pid %d)", u.Proc.PID, freshLevelZero.PID)
	}
}

func TestMLFQDemotionBoundary(t *testing.T) {
	p := runnableProc(1, 0, 0, 5)
	m := NewMLFQ(4)

	// Demotion at level 0 happens at ticks >= 4*0+2 == 2.
	m.OnTick(kernel.Unit{Proc: p})
	if p.QueueLevel != 0 {
		t.Fatalf("after 1 tick, QueueLevel = %d, want 0", p.QueueLevel)
	}
	m.OnTick(kernel.Unit{Proc: p})
	if p.QueueLevel != 1 || p.Ticks != 0 {
		t.Fatalf("after 2 ticks, got (level=%d, ticks=%d), want (1, 0)", p.QueueLevel, p.Ticks)
	}
}

func TestMLFQBoostResetsLevelAndTicksNotPriority(t *testing.T) {
	p := runnableProc(1, 3, 2, 7)
	m := NewMLFQ(4)
	m.Boost([]*kernel.Proc{p})
	if p.QueueLevel != 0 || p.Ticks != 0 {
		t.Fatalf("after Boost, (level=%d, ticks=%d), want (0, 0)", p.QueueLevel, p.Ticks)
	}
	if p.Priority != 7 {
		t.Fatalf("Boost changed Priority to %d, want unchanged 7", p.Priority)
	}
}

func TestMLFQPickNextBoostsWhenIdle(t *testing.T) {
	p := runnableProc(1, 2, 1, 5)
	p.State = kernel.Sleeping // nothing runnable
	m := NewMLFQ(4)
	u := m.PickNext([]*kernel.Proc{p})
	if u.Proc != nil {
		t.Fatalf("PickNext with nothing runnable returned a unit")
	}
	if p.QueueLevel != 0 || p.Ticks != 0 {
		t.Fatalf("idle PickNext did not boost: (level=%d, ticks=%d)", p.QueueLevel, p.Ticks)
	}
}
