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
	"os"

	"github.com/talismancer/schedcore/internal/collab"
)

// diskInode is the one real collab.Inode backend in this module: a plain
// os.File, used only by the adduser/login subcommands so the credential
// store they exercise persists across invocations. Every other caller
// (the kernel package's own tests, the run/ps/kill/setpriority demo
// subcommands) uses collab.MemInode instead.
type diskInode struct {
	f *os.File
}

// openCredsFile opens (creating if necessary) the credential-store file at
// path, zero-padding it to at least size bytes.
func openCredsFile(path string, size int64) (*diskInode, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &diskInode{f: f}, nil
}

func (d *diskInode) ReadAt(p []byte, off int64) (int, error)  { return d.f.ReadAt(p, off) }
func (d *diskInode) WriteAt(p []byte, off int64) (int, error) { return d.f.WriteAt(p, off) }

// Dup returns d itself: the CLI never shares an Inode across more than one
// owner within a single invocation, so there is nothing to count.
func (d *diskInode) Dup() collab.Inode { return d }

// Put closes the backing file.
func (d *diskInode) Put() { d.f.Close() }
