package kernel

import "sync"

// tableLock is the single coarse lock protecting the whole process/thread
// table (spec.md §5: "A single coarse spinlock protects the entire
// process/thread table"). It is a dedicated wrapper type rather than a bare
// sync.Mutex field so that sched()'s invariant — "the table lock is held
// exactly once" (spec.md §4.6) — can be asserted instead of merely hoped
// for, the same way the teacher gives every lock class its own named
// wrapper type instead of sharing sync.Mutex directly.
type tableLock struct {
	mu    sync.Mutex
	holds int32
}

func (l *tableLock) Lock() {
	l.mu.Lock()
	l.holds = 1
}

func (l *tableLock) Unlock() {
	l.holds = 0
	l.mu.Unlock()
}

// HeldExactlyOnce reports whether the lock is currently held. No code in
// this module calls it.
func (l *tableLock) HeldExactlyOnce() bool {
	return l.holds == 1
}
