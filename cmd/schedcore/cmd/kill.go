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

	"github.com/talismancer/schedcore/internal/kernel"
	"github.com/talismancer/schedcore/internal/log"
)

// Kill builds a single-process demo table, puts that process to sleep,
// and kills it by pid, demonstrating spec.md §4.4's "sleepers are
// transitioned to RUNNABLE on kill so they exit the kernel promptly".
type Kill struct{}

func (*Kill) Name() string     { return "kill" }
func (*Kill) Synopsis() string { return "kill a sleeping demo process by pid" }
func (*Kill) Usage() string    { return "kill\n" }
func (*Kill) SetFlags(*flag.FlagSet) {}

func (*Kill) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		log.Warningf("kill: %v", err)
		return subcommands.ExitFailure
	}

	tbl, init, err := buildDemoTable(cfg, 0, 0)
	if err != nil {
		log.Warningf("kill: %v", err)
		return subcommands.ExitFailure
	}

	done := make(chan struct{})
	go func() {
		tbl.Sleep(kernel.Unit{Proc: init}, "demo-chan")
		close(done)
	}()

	// Kill only wakes a process that is already SLEEPING, so wait for it.
	for sleeping := false; !sleeping; {
		for _, s := range tbl.Snapshot() {
			if s.PID == init.PID && s.State == kernel.Sleeping {
				sleeping = true
			}
		}
	}

	if err := tbl.Kill(init.PID); err != nil {
		log.Warningf("kill: %v", err)
		return subcommands.ExitFailure
	}
	<-done

	fmt.Printf("pid %d woke from kill, killed=%v\n", init.PID, init.Killed())
	return subcommands.ExitSuccess
}
