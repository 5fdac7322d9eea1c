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

// The schedcore command is a demonstration CLI over the scheduling core:
// it exercises fork/exit/wait, the three scheduling policies, and the
// credential store against a single in-process kernel.Table and
// cpu.Machine, per spec.md §6's scheduling-relevant syscall table.
package main

import (
	"os"

	"github.com/talismancer/schedcore/cmd/schedcore/cli"
)

func main() {
	os.Exit(cli.Main())
}
