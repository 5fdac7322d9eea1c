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

// Package cmd implements schedcore's subcommands. Each scheduling
// subcommand (run, ps, kill, setpriority) builds its own short-lived
// kernel.Table and (where relevant) cpu.Machine, and adduser/login open
// the credential store directly: there is no long-running daemon in scope
// (spec.md §1 places the trap dispatcher and real process boot out of
// scope), so every subcommand is a self-contained demonstration of the
// operations in spec.md §6 rather than a client of a persistent scheduler
// process.
package cmd

import (
	"fmt"

	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/config"
	"github.com/talismancer/schedcore/internal/kernel"
	"github.com/talismancer/schedcore/internal/kernel/policy"
	"github.com/talismancer/schedcore/internal/log"
)

// ConfigFile is set by cli.Main from the top-level -config flag before any
// subcommand's Execute runs.
var ConfigFile string

// loadConfig loads ConfigFile, or internal/config.Default if ConfigFile is
// unset or does not name an existing file. A loaded file's debug and
// log_json settings switch on debug logging and JSON log output.
func loadConfig() (*config.Config, error) {
	if ConfigFile == "" || !config.FileExists(ConfigFile) {
		return config.Default(), nil
	}
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		log.SetLevel(true)
	}
	if cfg.LogJSON {
		log.SetJSON(true)
	}
	return cfg, nil
}

// newPolicy builds the Policy implementation named by cfg.Policy.
func newPolicy(cfg *config.Config) kernel.Policy {
	switch cfg.Policy {
	case config.PolicyTwoQueue:
		return policy.NewTwoQueue()
	case config.PolicyMLFQ:
		return policy.NewMLFQ(cfg.MLFQLevels)
	default:
		return policy.NewThreaded()
	}
}

// demoBody returns a Body that reports Continue for its first n-1 calls
// and Exited on its n-th, a small deterministic workload standing in for
// a real user-mode program.
func demoBody(n int) kernel.Body {
	return func(call int) kernel.Result {
		if call >= n-1 {
			return kernel.Result{Action: kernel.Exited, Retval: call}
		}
		return kernel.Result{Action: kernel.Continue}
	}
}

// buildDemoTable constructs a Table under cfg's policy, with an init
// process and nchildren forked workloads, each running quantaPerChild
// simulated quanta before exiting.
func buildDemoTable(cfg *config.Config, nchildren, quantaPerChild int) (*kernel.Table, *kernel.Proc, error) {
	tbl := kernel.NewTable(cfg, newPolicy(cfg))

	root := collab.NewMemInode(0)
	as := collab.NewMemAddressSpace(4096)
	init, err := tbl.Userinit(as, root, demoBody(quantaPerChild))
	if err != nil {
		return nil, nil, fmt.Errorf("userinit: %w", err)
	}

	for i := 0; i < nchildren; i++ {
		if _, err := tbl.Fork(init, demoBody(quantaPerChild)); err != nil {
			return nil, nil, fmt.Errorf("fork %d: %w", i, err)
		}
	}
	return tbl, init, nil
}

// printSnapshot renders a Table's Snapshot as a one-line-per-process
// table, the way "ps" subcommands in the pack format theirs.
func printSnapshot(snap []kernel.Snapshot) {
	fmt.Printf("%-6s %-16s %-10s %-6s %-6s\n", "PID", "NAME", "STATE", "LEVEL", "PRIO")
	for _, s := range snap {
		fmt.Printf("%-6d %-16s %-10s %-6d %-6d\n", s.PID, s.Name, s.State, s.QueueLevel, s.Priority)
	}
}
