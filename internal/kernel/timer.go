package kernel

// ticksWraparoundGuard is where the shared tick counter resets, standing
// in for spec.md §4.7's "clamp the counter just below a 32-bit
// wraparound" — chosen low enough that the clamp can be reached without
// looping billions of times. No test in this module reaches it.
const ticksWraparoundGuard = 1 << 20

// Tick is the timer-hook entry point driven once per simulated timer IRQ
// per CPU (spec.md §4.7). Only cpuID 0 advances the shared ticks counter
// and broadcasts a wakeup on it (the hook user-mode sleep(n) would rely
// on, out of scope here per spec.md §1, but the wakeup itself is in
// scope). Returns whether the running unit should yield this tick,
// per the active policy's yield-on-tick rule.
func (t *Table) Tick(cpuID int, running Unit) bool {
	if cpuID == 0 {
		t.ticksMu.Lock()
		t.ticks++
		if t.ticks%100 == 0 {
			t.boostPending = true
		}
		if t.ticks >= ticksWraparoundGuard {
			t.ticks = 0
		}
		t.ticksMu.Unlock()
		t.Wakeup(&t.ticks)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.ticksMu.Lock()
	boost := t.boostPending
	t.boostPending = false
	t.ticksMu.Unlock()

	if boost {
		t.policy.Boost(t.procs)
	} else if running.valid() {
		t.policy.OnTick(running)
	}
	return t.policy.ShouldYield(running)
}

// Ticks returns the current shared tick count, for tests asserting boost
// timing (spec.md §8: "after 100 global ticks...").
func (t *Table) Ticks() uint64 {
	t.ticksMu.Lock()
	defer t.ticksMu.Unlock()
	return t.ticks
}
