// Copyright 2018 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file plays the role the teacher's pkg/sentry/syscalls/linux/sys_sched.go
// plays for sched_getparam/sched_setscheduler: a thin syscall-shaped
// surface over the kernel's real state, with the same "validate, then
// touch exactly one field" shape. There is no real trap dispatcher in
// scope (spec.md §1), so these are plain exported Table methods rather
// than functions taking a *kernel.Task and raw syscall arguments.
package kernel

import "github.com/talismancer/schedcore/internal/kernerr"

// Getlev returns p's current levelOfQueue (spec.md §6). Panics under the
// threaded policy, which has no queue-level concept (spec.md §6: "value,
// or panic under default policy").
func (t *Table) Getlev(p *Proc) int {
	if t.policy.SupportsThreads() {
		panic(kernerr.ErrUnsupportedOp)
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	return p.QueueLevel
}

// Setpriority sets the MLFQ priority of the live process pid (spec.md
// §4.5.3, §6). It does not check that pid is a child of the caller. Panics
// outside the MLFQ policy; returns ErrNoSuchPid if pid names no live
// process, or ErrPriorityRange if priority is outside [0,10].
func (t *Table) Setpriority(pid int, priority int) error {
	if t.policy.Name() != "mlfq" {
		panic(kernerr.ErrUnsupportedOp)
	}
	if priority < 0 || priority > 10 {
		return kernerr.ErrPriorityRange
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	target := t.byPID(pid)
	if target == nil {
		return kernerr.ErrNoSuchPid
	}
	target.Priority = priority
	return nil
}

// Yield voluntarily transitions u from RUNNING to RUNNABLE, the same
// state change the timer hook forces on a preemption tick (spec.md §4.5,
// §4.7), without touching any policy accounting.
func (t *Table) Yield(u Unit) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if u.state() == Running {
		u.setState(Runnable)
	}
}
