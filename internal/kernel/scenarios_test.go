package kernel_test

import (
	"testing"

	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/config"
	"github.com/talismancer/schedcore/internal/kernel"
	"github.com/talismancer/schedcore/internal/kernel/policy"
)

// countingBody returns a Body that increments *n every time it is
// dispatched and always reports Continue, so a test can tell how many
// times the scheduler actually picked a given process.
func countingBody(n *int) kernel.Body {
	return func(call int) kernel.Result {
		*n++
		return kernel.Result{Action: kernel.Continue}
	}
}

// TestScenarioTwoQueueFairness is spec.md §8 scenario 1: under the
// two-queue policy, the class-0 pair alternates every dispatch while both
// remain runnable; class 1 never runs as long as a class-0 process is
// runnable.
func TestScenarioTwoQueueFairness(t *testing.T) {
	cfg := config.Default()
	cfg.NProc = 16
	tbl := kernel.NewTable(cfg, policy.NewTwoQueue())

	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}

	var counts [4]int
	var pids [4]int
	for i := 0; i < 4; i++ {
		pid, err := tbl.Fork(init, countingBody(&counts[i]))
		if err != nil {
			t.Fatalf("Fork %d: %v", i, err)
		}
		pids[i] = pid
	}

	class0 := map[int]bool{}
	for _, s := range tbl.Snapshot() {
		if s.PID == init.PID {
			continue
		}
		if s.QueueLevel == 0 {
			class0[s.PID] = true
		}
	}
	if len(class0) != 2 {
		t.Fatalf("expected exactly 2 class-0 children among 4, got %d (%v)", len(class0), class0)
	}

	for i := 0; i < 40; i++ {
		if !tbl.Step(0) {
			t.Fatalf("Step returned false with runnable work present")
		}
	}

	for i, pid := range pids {
		if class0[pid] {
			if counts[i] == 0 {
				t.Fatalf("class-0 pid %d never ran", pid)
			}
		} else if counts[i] != 0 {
			t.Fatalf("class-1 pid %d ran %d times while class-0 siblings were runnable", pid, counts[i])
		}
	}
}

// TestScenarioMLFQStarvationFreedom is spec.md §8 scenario 2: a CPU-bound
// process descends one level at a time, each level taking 4*level+2
// ticks, and a priority boost at 100 ticks returns everyone to level 0.
func TestScenarioMLFQStarvationFreedom(t *testing.T) {
	cfg := config.Default()
	cfg.NProc = 8
	cfg.MLFQLevels = 4
	tbl := kernel.NewTable(cfg, policy.NewMLFQ(cfg.MLFQLevels))

	cpuBound, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}

	ticksToDrainLevels := 0
	for lvl := 0; lvl < cfg.MLFQLevels-1; lvl++ {
		ticksToDrainLevels += 4*lvl + 2
	}

	for i := 0; i < ticksToDrainLevels; i++ {
		tbl.Step(0)
	}
	if cpuBound.QueueLevel != cfg.MLFQLevels-1 {
		t.Fatalf("after %d ticks, QueueLevel = %d, want %d", ticksToDrainLevels, cpuBound.QueueLevel, cfg.MLFQLevels-1)
	}

	for tbl.Ticks() < 100 {
		tbl.Step(0)
	}
	if cpuBound.QueueLevel != 0 {
		t.Fatalf("after the 100-tick boost, QueueLevel = %d, want 0", cpuBound.QueueLevel)
	}
}
