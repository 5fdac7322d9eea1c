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

	"github.com/talismancer/schedcore/internal/account"
	"github.com/talismancer/schedcore/internal/log"
)

// defaultCredsPath is where the credential-store image lives when
// -creds-file is not given.
const defaultCredsPath = "schedcore-creds.img"

// AddUser adds a {username, password} pair to the on-disk credential
// store (spec.md §4.9's addUser), creating the store if necessary.
type AddUser struct {
	credsFile string
	username  string
	password  string
}

func (*AddUser) Name() string     { return "adduser" }
func (*AddUser) Synopsis() string { return "add a user to the credential store" }
func (*AddUser) Usage() string    { return "adduser -user NAME -pass PASS [-creds-file PATH]\n" }
func (a *AddUser) SetFlags(f *flag.FlagSet) {
	f.StringVar(&a.credsFile, "creds-file", defaultCredsPath, "credential-store image path")
	f.StringVar(&a.username, "user", "", "username to add")
	f.StringVar(&a.password, "pass", "", "password for the new user")
}

func (a *AddUser) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if a.username == "" {
		fmt.Fprintln(f.Output(), "adduser: -user is required")
		return subcommands.ExitUsageError
	}

	inode, err := openCredsFile(a.credsFile, account.NumEntries*2*account.MaxUsername)
	if err != nil {
		log.Warningf("adduser: %v", err)
		return subcommands.ExitFailure
	}
	defer inode.Put()

	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		log.Warningf("adduser: load: %v", err)
		return subcommands.ExitFailure
	}
	if err := store.Add(a.username, a.password); err != nil {
		log.Warningf("adduser: %v", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("added user %q to %s\n", a.username, a.credsFile)
	return subcommands.ExitSuccess
}
