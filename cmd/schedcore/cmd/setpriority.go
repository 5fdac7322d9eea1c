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

	"github.com/google/subcommands"

	"github.com/talismancer/schedcore/internal/log"
)

// SetPriority forks one demo child under the MLFQ policy and sets its
// priority, then prints the resulting process-table snapshot. Per
// spec.md §6, this panics if the configured policy is not
// MLFQ — that is the documented contract for an unsupported operation,
// not a bug to be papered over here.
type SetPriority struct {
	priority int
}

func (*SetPriority) Name() string     { return "setpriority" }
func (*SetPriority) Synopsis() string { return "set a demo child's MLFQ priority" }
func (*SetPriority) Usage() string    { return "setpriority -priority P\n" }
func (s *SetPriority) SetFlags(f *flag.FlagSet) {
	f.IntVar(&s.priority, "priority", 5, "priority in [0,10]")
}

func (s *SetPriority) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		log.Warningf("setpriority: %v", err)
		return subcommands.ExitFailure
	}

	tbl, init, err := buildDemoTable(cfg, 1, 20)
	if err != nil {
		log.Warningf("setpriority: %v", err)
		return subcommands.ExitFailure
	}

	snap := tbl.Snapshot()
	var childPID int
	for _, rec := range snap {
		if rec.PID != init.PID {
			childPID = rec.PID
			break
		}
	}

	if err := tbl.Setpriority(childPID, s.priority); err != nil {
		log.Warningf("setpriority: %v", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("pid %d priority set to %d\n", childPID, s.priority)
	printSnapshot(tbl.Snapshot())
	return subcommands.ExitSuccess
}
