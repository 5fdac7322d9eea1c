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
	"time"

	"github.com/google/subcommands"

	"github.com/talismancer/schedcore/internal/cpu"
	"github.com/talismancer/schedcore/internal/log"
)

// PS prints a snapshot of a freshly built demo table partway through its
// run, the closest analogue available without a persistent daemon to
// attach to.
type PS struct {
	nchildren int
	quanta    int
}

func (*PS) Name() string             { return "ps" }
func (*PS) Synopsis() string         { return "print a snapshot of the demo process table" }
func (*PS) Usage() string            { return "ps [-children N] [-quanta N]\n" }
func (p *PS) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.nchildren, "children", 4, "number of forked demo processes")
	f.IntVar(&p.quanta, "quanta", 20, "simulated quanta each demo process runs before exiting")
}

func (p *PS) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		log.Warningf("ps: %v", err)
		return subcommands.ExitFailure
	}

	tbl, _, err := buildDemoTable(cfg, p.nchildren, p.quanta)
	if err != nil {
		log.Warningf("ps: %v", err)
		return subcommands.ExitFailure
	}

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Millisecond)
	defer cancel()
	m := cpu.NewMachine(1, tbl)
	m.Run(runCtx)

	printSnapshot(tbl.Snapshot())
	return subcommands.ExitSuccess
}
