// Package kernerr defines the sentinel errors returned by the scheduling
// core's tier-2 (return-code) failures. Modeled on the teacher's
// pkg/errors/linuxerr: a flat set of named errors that call sites compare
// against with errors.Is, instead of inspecting formatted strings.
package kernerr

import "errors"

var (
	// ErrNoSlots is returned by allocate when the process table has no
	// UNUSED slot left.
	ErrNoSlots = errors.New("kernel: no free process slots")

	// ErrAllocFailed is returned by Fork when a slot was reserved but
	// copying the parent's address space into it failed.
	ErrAllocFailed = errors.New("kernel: process allocation failed")

	// ErrNoSuchPid is returned by operations addressing a pid that does not
	// name a live process.
	ErrNoSuchPid = errors.New("kernel: no such pid")

	// ErrNoChildren is returned by Wait when the caller has no children at
	// all (live or zombie).
	ErrNoChildren = errors.New("kernel: no children")

	// ErrKilled is returned by Wait when the caller itself has been killed.
	ErrKilled = errors.New("kernel: caller killed")

	// ErrPriorityRange is returned by Setpriority when p is outside [0,10].
	ErrPriorityRange = errors.New("kernel: priority out of range")

	// ErrUnsupportedOp is used only to build panic messages for operations
	// not supported under the active policy (getlev under the default
	// threaded policy, setpriority outside MLFQ, thread_create/exit/join
	// under queue policies); per spec it is never returned, only panicked
	// with.
	ErrUnsupportedOp = errors.New("kernel: operation not supported by active policy")

	// ErrDuplicateUser is returned by the credential store when addUser is
	// called with a username already present.
	ErrDuplicateUser = errors.New("account: duplicate username")

	// ErrUserTableFull is returned by the credential store when addUser is
	// called with all 10 slots occupied.
	ErrUserTableFull = errors.New("account: user table full")

	// ErrNoSuchUser names a failed credential match. account.Store.Verify
	// does not return it; Verify reports a failed match as false.
	ErrNoSuchUser = errors.New("account: no matching user")

	// ErrNoSuchThread is returned by thread_join when no live thread with
	// the given tid was found by its (spec.md §4.8/§9) RUNNABLE-process-only
	// scan.
	ErrNoSuchThread = errors.New("kernel: no such thread (or its process is not RUNNABLE)")

	// ErrNoThreadSlots is returned by thread_create when every thread slot
	// in the process is occupied.
	ErrNoThreadSlots = errors.New("kernel: no free thread slots")

	// ErrFieldTooLong is returned by addUser when a username or password
	// does not fit the credential store's fixed-width field.
	ErrFieldTooLong = errors.New("account: username or password too long")
)
