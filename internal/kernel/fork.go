package kernel

import "github.com/talismancer/schedcore/internal/kernerr"

// Fork duplicates parent into a new child process (spec.md §4.3): a fresh
// address space (AddrSpace.Copy), duplicated open-file handles and cwd,
// the same name, and an immediate transition to RUNNABLE. childBody is the
// child's own Body — standing in for "the caller's trap frame copied into
// the child's main-thread trap frame with return-value register = 0": the
// child runs its own code from here on, distinct from the parent's.
//
// Returns the child's pid. On failure it returns -1 together with
// ErrNoSlots or ErrAllocFailed (spec.md §6).
func (t *Table) Fork(parent *Proc, childBody Body) (int, error) {
	child, err := t.allocate(parent.Name, childBody)
	if err != nil {
		return -1, err
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if parent.AddrSpace != nil {
		as, err := parent.AddrSpace.Copy()
		if err != nil {
			child.State = Unused
			child.step = nil
			return -1, kernerr.ErrAllocFailed
		}
		child.AddrSpace = as
		child.Sz = parent.Sz
	}
	if parent.Cwd != nil {
		child.Cwd = parent.Cwd.Dup()
	}
	for i, f := range parent.Ofile {
		if f != nil {
			child.Ofile[i] = f.Dup()
		}
	}
	child.Parent = ref(parent)

	if t.policy.SupportsThreads() {
		copy(child.UStacks, parent.UStacks)
		active := parent.TID
		child.UStacks[0], child.UStacks[active] = child.UStacks[active], child.UStacks[0]
		child.Threads[0].State = Runnable
	}

	logTransition("fork", child, child.State, Runnable)
	child.State = Runnable
	return child.PID, nil
}
