// Package cpu drives the table's scheduler loop across a fixed number of
// simulated CPUs (spec.md §5: "Parallel kernel execution across multiple
// CPUs, each running its own scheduler loop"). It is the one place in this
// module that actually demonstrates dispatch ORDER under the active
// policy; the kernel package's lifecycle methods (Fork/Exit/Wait/...) are
// ordinary blocking calls and do not need a Machine to be exercised or
// tested.
package cpu

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/talismancer/schedcore/internal/kernel"
	"github.com/talismancer/schedcore/internal/log"
)

// idleBackoff is how long a CPU with nothing runnable waits before
// re-polling, so an idle Machine does not spin at 100% of a core.
const idleBackoff = time.Millisecond

// Machine is a fixed set of simulated CPUs, each running table's scheduler
// loop independently until ctx is cancelled. A weighted semaphore caps how
// many of them may be live at once, the same role it plays bounding
// concurrent work elsewhere in the retrieval pack.
type Machine struct {
	table *kernel.Table
	ncpu  int
	sem   *semaphore.Weighted
}

// NewMachine constructs a Machine with n simulated CPUs dispatching from
// tbl. No more than n CPUs ever run concurrently; NewMachine exists
// separately from a hypothetical "max concurrent" knob because this
// scheduling core never models hot-plugging a CPU mid-run.
func NewMachine(n int, tbl *kernel.Table) *Machine {
	return &Machine{table: tbl, ncpu: n, sem: semaphore.NewWeighted(int64(n))}
}

// Run starts one scheduler-loop goroutine per CPU and blocks until ctx is
// cancelled, then waits for all of them to return (mirroring the
// teacher's errgroup-based fan-out/fan-in for a fixed worker set).
func (m *Machine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < m.ncpu; id++ {
		cpuID := id
		g.Go(func() error {
			if err := m.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer m.sem.Release(1)
			return m.runCPU(ctx, cpuID)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (m *Machine) runCPU(ctx context.Context, cpuID int) error {
	log.Debugf("cpu%d: scheduler loop starting", cpuID)
	for {
		select {
		case <-ctx.Done():
			log.Debugf("cpu%d: scheduler loop stopping", cpuID)
			return ctx.Err()
		default:
		}

		if ran := m.table.Step(cpuID); !ran {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idleBackoff):
			}
		}
	}
}
