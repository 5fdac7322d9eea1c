package kernel

import "github.com/talismancer/schedcore/internal/collab"

// Userinit allocates the first process, installs addrSpace as its address
// space, sets its cwd to root, and transitions it straight to RUNNABLE
// (spec.md §4.2). It becomes the table's re-parent target for orphans
// (spec.md §3 invariant 5).
func (t *Table) Userinit(addrSpace collab.AddressSpace, root collab.Inode, body Body) (*Proc, error) {
	p, err := t.allocate("init", body)
	if err != nil {
		return nil, err
	}

	t.lock.Lock()
	p.AddrSpace = addrSpace
	p.Cwd = root
	logTransition("userinit", p, p.State, Runnable)
	p.State = Runnable
	if t.policy.SupportsThreads() {
		p.Threads[0].State = Runnable
	}
	t.init = ref(p)
	t.lock.Unlock()

	return p, nil
}
