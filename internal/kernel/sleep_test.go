package kernel_test

import (
	"testing"
	"time"

	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/kernel"
)

func TestWakeupWakesMatchingSleeper(t *testing.T) {
	tbl, _ := newTestTable(t, threadedPolicy)

	init, err := tbl.Userinit(collab.NewMemAddressSpace(4096), collab.NewMemInode(0), noopBody)
	if err != nil {
		t.Fatalf("Userinit: %v", err)
	}

	const chanKey = "some-resource"
	done := make(chan struct{})
	go func() {
		tbl.Sleep(kernel.Unit{Proc: init}, chanKey)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for init.State != kernel.Sleeping && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if init.State != kernel.Sleeping {
		t.Fatalf("process never reached SLEEPING")
	}

	// A wakeup on a different channel must not wake it.
	tbl.Wakeup("a different channel")
	select {
	case <-done:
		t.Fatalf("woke up on the wrong channel")
	case <-time.After(10 * time.Millisecond):
	}

	tbl.Wakeup(chanKey)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Wakeup(chanKey) did not wake the sleeper")
	}
}
