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

// Package cli is the main entrypoint for schedcore, mirroring the
// teacher's runsc/cli package: register every subcommand, parse flags
// once, then dispatch.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/talismancer/schedcore/cmd/schedcore/cmd"
	"github.com/talismancer/schedcore/internal/log"
)

var (
	debug   = flag.Bool("debug", false, "enable debug logging")
	logJSON = flag.Bool("log-json", false, "emit logs as JSON")
	cfgFile = flag.String("config", "", "path to a schedcore.toml configuration file")
)

// Main is the main entrypoint.
func Main() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")

	subcommands.Register(&cmd.Run{}, "")
	subcommands.Register(&cmd.PS{}, "")
	subcommands.Register(&cmd.Kill{}, "")
	subcommands.Register(&cmd.SetPriority{}, "")

	const userGroup = "credentials"
	subcommands.Register(&cmd.AddUser{}, userGroup)
	subcommands.Register(&cmd.Login{}, userGroup)

	flag.Parse()

	log.SetLevel(*debug)
	log.SetJSON(*logJSON)

	cmd.ConfigFile = *cfgFile

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: schedcore <subcommand> [flags] [args]")
		return int(subcommands.ExitUsageError)
	}

	return int(subcommands.Execute(context.Background()))
}
