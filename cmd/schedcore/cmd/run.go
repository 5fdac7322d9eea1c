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

package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/talismancer/schedcore/internal/cpu"
	"github.com/talismancer/schedcore/internal/log"
)

// Run drives a demo Machine for a fixed duration, printing the process
// table before and after, to show the selected policy actually dispatch
// and reap work.
type Run struct {
	ncpu      int
	nchildren int
	quanta    int
	duration  time.Duration
}

func (*Run) Name() string     { return "run" }
func (*Run) Synopsis() string { return "run the scheduler core for a short demo workload" }
func (*Run) Usage() string {
	return "run [-cpus N] [-children N] [-quanta N] [-duration D]\n"
}

func (r *Run) SetFlags(f *flag.FlagSet) {
	f.IntVar(&r.ncpu, "cpus", 2, "number of simulated CPUs")
	f.IntVar(&r.nchildren, "children", 4, "number of forked demo processes")
	f.IntVar(&r.quanta, "quanta", 20, "simulated quanta each demo process runs before exiting")
	f.DurationVar(&r.duration, "duration", 500*time.Millisecond, "how long to run the Machine")
}

func (r *Run) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		log.Warningf("run: %v", err)
		return subcommands.ExitFailure
	}

	tbl, init, err := buildDemoTable(cfg, r.nchildren, r.quanta)
	if err != nil {
		log.Warningf("run: %v", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("policy: %s\n\nbefore:\n", cfg.Policy)
	printSnapshot(tbl.Snapshot())

	runCtx, cancel := context.WithTimeout(ctx, r.duration)
	defer cancel()
	m := cpu.NewMachine(r.ncpu, tbl)
	if err := m.Run(runCtx); err != nil {
		log.Warningf("run: machine: %v", err)
	}

	for i := 0; i < r.nchildren; i++ {
		if _, err := tbl.Wait(init); err != nil {
			break
		}
	}

	fmt.Println("\nafter:")
	printSnapshot(tbl.Snapshot())
	return subcommands.ExitSuccess
}
