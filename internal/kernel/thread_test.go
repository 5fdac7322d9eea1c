package kernel_test

import (
	"testing"
	"time"

	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/kernel"
)

func TestThreadJoinWakeup(t *testing.T) {
	tbl, _ := newTestTable(t, threadedPolicy)

	p, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}

	tid, err := tbl.ThreadCreate(p, noopBody)
	if err != nil {
		t.Fatalf("ThreadCreate: %v", err)
	}
	th := findThread(p, tid)
	if th == nil {
		t.Fatalf("thread %d not found on p", tid)
	}

	joined := make(chan any, 1)
	joinErr := make(chan error, 1)
	go func() {
		r, err := tbl.ThreadJoin(kernel.Unit{Proc: p}, tid)
		joinErr <- err
		joined <- r
	}()

	// Let the joiner actually block before the thread exits.
	deadline := time.Now().Add(time.Second)
	// The joiner sleeps at process level (its Unit has no Thread), so its
	// process record is the one that turns SLEEPING.
	for p.State != kernel.Sleeping && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	tbl.ThreadExit(p, th, 42)

	if err := <-joinErr; err != nil {
		t.Fatalf("ThreadJoin: %v", err)
	}
	r := <-joined
	if r != 42 {
		t.Fatalf("ThreadJoin retval = %v, want 42", r)
	}
}

// findThread is a test-only helper reaching into p's thread slots by
// exported fields only (Threads, TID are exported on Proc/Thread).
func findThread(p *kernel.Proc, tid int) *kernel.Thread {
	for _, th := range p.Threads {
		if th != nil && th.TID == tid {
			return th
		}
	}
	return nil
}

// TestThreadJoinMissesSleepingOwner documents the preserved spec.md §9
// open-question behavior: thread_join's scan only considers threads whose
// owning process is RUNNABLE or RUNNING (kernel.findJoinableLocked). A
// joiner racing a process that is itself SLEEPING at the moment of the
// call will see ErrNoSuchThread even though the thread exists. This is
// kept verbatim rather than "fixed", per the resolved open question.
func TestThreadJoinMissesSleepingOwner(t *testing.T) {
	t.Skip("documents a preserved upstream quirk: thread_join's scan misses threads of a SLEEPING owner, see DESIGN.md")
}
