package kernel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/config"
	"github.com/talismancer/schedcore/internal/kernel"
	"github.com/talismancer/schedcore/internal/kernel/policy"
)

func newTestTable(t *testing.T, pol func(*config.Config) kernel.Policy) (*kernel.Table, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.NProc = 16
	cfg.NThread = 4
	cfg.MLFQLevels = 4
	tbl := kernel.NewTable(cfg, pol(cfg))
	return tbl, cfg
}

func threadedPolicy(*config.Config) kernel.Policy { return policy.NewThreaded() }

func noopBody(call int) kernel.Result { return kernel.Result{Action: kernel.Continue} }

func TestForkExitWaitReturnsChildPID(t *testing.T) {
	tbl, _ := newTestTable(t, threadedPolicy)

	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}

	childPID, err := tbl.Fork(init, noopBody)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}

	child, ok := tbl.ByPID(childPID)
	if !ok {
		t.Fatalf("ByPID(%d): not found after Fork", childPID)
	}
	tbl.Exit(child)

	reaped, err := tbl.Wait(init)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if reaped != childPID {
		t.Fatalf("Wait returned pid %d, want %d", reaped, childPID)
	}

	if _, ok := tbl.ByPID(childPID); ok {
		t.Fatalf("child slot not freed after reap")
	}
}

func TestSnapshotReflectsForkedChildren(t *testing.T) {
	tbl, _ := newTestTable(t, threadedPolicy)
	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}
	childPID, err := tbl.Fork(init, noopBody)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}

	want := []kernel.Snapshot{
		{PID: init.PID, Name: "init", State: kernel.Runnable},
		{PID: childPID, Name: "init", State: kernel.Runnable},
	}
	got := tbl.Snapshot()
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b kernel.Snapshot) bool { return a.PID < b.PID })); diff != "" {
		t.Fatalf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestWaitNoChildren(t *testing.T) {
	tbl, _ := newTestTable(t, threadedPolicy)
	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}
	if _, err := tbl.Wait(init); err == nil {
		t.Fatalf("Wait with no children: want error, got nil")
	}
}

func TestForkFillsTableAndFails(t *testing.T) {
	cfg := config.Default()
	cfg.NProc = 3
	tbl := kernel.NewTable(cfg, policy.NewThreaded())

	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}
	if _, err := tbl.Fork(init, noopBody); err != nil {
		t.Fatalf("Fork 1: %v", err)
	}
	// Table has capacity 3; init + one child fills two slots, leaving one
	// free slot for a second child before exhaustion.
	if _, err := tbl.Fork(init, noopBody); err != nil {
		t.Fatalf("Fork 2: %v", err)
	}
	if _, err := tbl.Fork(init, noopBody); err == nil {
		t.Fatalf("Fork into a full table: want error, got nil")
	}
}

func TestReparentOnExit(t *testing.T) {
	tbl, _ := newTestTable(t, threadedPolicy)

	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}
	aPID, err := tbl.Fork(init, noopBody)
	if err != nil {
		t.Fatalf("Fork A: %v", err)
	}
	a, _ := tbl.ByPID(aPID)

	gPID, err := tbl.Fork(a, noopBody)
	if err != nil {
		t.Fatalf("Fork G: %v", err)
	}
	g, _ := tbl.ByPID(gPID)

	// A exits before G; G is re-parented to init.
	tbl.Exit(a)
	if _, err := tbl.Wait(init); err != nil {
		t.Fatalf("Wait reaping A: %v", err)
	}

	tbl.Exit(g)
	reaped, err := tbl.Wait(init)
	if err != nil {
		t.Fatalf("Wait reaping G: %v", err)
	}
	if reaped != gPID {
		t.Fatalf("init.Wait() = %d, want grandchild pid %d", reaped, gPID)
	}
}

func TestKillOfSleeper(t *testing.T) {
	tbl, _ := newTestTable(t, threadedPolicy)

	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}
	pid, err := tbl.Fork(init, noopBody)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	p, _ := tbl.ByPID(pid)

	awake := make(chan struct{})
	go func() {
		tbl.Sleep(kernel.Unit{Proc: p}, "ticks")
		close(awake)
	}()

	// Give the goroutine a chance to actually enter SLEEPING before kill.
	for {
		p2, ok := tbl.ByPID(pid)
		if ok && p2.State == kernel.Sleeping {
			break
		}
	}

	if err := tbl.Kill(pid); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	<-awake

	if !p.Killed() {
		t.Fatalf("p.Killed() = false after Kill")
	}

	tbl.Exit(p)
	reaped, err := tbl.Wait(init)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if reaped != pid {
		t.Fatalf("Wait() = %d, want %d", reaped, pid)
	}
}
