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

// Login verifies a {username, password} pair against the on-disk
// credential store (spec.md §4.9's verify/logout).
type Login struct {
	credsFile string
	username  string
	password  string
	logout    bool
}

func (*Login) Name() string     { return "login" }
func (*Login) Synopsis() string { return "verify credentials against the credential store" }
func (*Login) Usage() string    { return "login -user NAME -pass PASS [-creds-file PATH] [-logout]\n" }
func (l *Login) SetFlags(f *flag.FlagSet) {
	f.StringVar(&l.credsFile, "creds-file", defaultCredsPath, "credential-store image path")
	f.StringVar(&l.username, "user", "", "username to verify")
	f.StringVar(&l.password, "pass", "", "password to verify")
	f.BoolVar(&l.logout, "logout", false, "log out the current user instead of logging in")
}

func (l *Login) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	inode, err := openCredsFile(l.credsFile, account.NumEntries*2*account.MaxUsername)
	if err != nil {
		log.Warningf("login: %v", err)
		return subcommands.ExitFailure
	}
	defer inode.Put()

	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		log.Warningf("login: load: %v", err)
		return subcommands.ExitFailure
	}

	if l.logout {
		store.Logout()
		fmt.Println("logged out")
		return subcommands.ExitSuccess
	}

	if !store.Verify(l.username, l.password) {
		fmt.Println("login failed")
		return subcommands.ExitFailure
	}
	fmt.Printf("login succeeded, current user %q\n", store.Current())
	return subcommands.ExitSuccess
}
