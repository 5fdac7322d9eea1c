// Package account implements the credential store of spec.md §4.9/§6: a
// fixed-capacity table of {username, password} pairs persisted as a
// 320-byte image at offset 0 of a dedicated inode. Grounded on the
// teacher's pkg/sentry/kernel/auth (a fixed-shape, lock-guarded
// credential record written through to its backing store on every
// mutation), adapted to the disk-image layout spec.md §6 specifies.
package account

import (
	"bytes"
	"sync"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/kernerr"
	"github.com/talismancer/schedcore/internal/log"
)

const (
	// MaxUsername and MaxPassword are both 16 (spec.md §6, §9 open
	// question: "MAXPASSWORD == MAXUSERNAME == 16").
	MaxUsername = 16
	MaxPassword = 16

	// NumEntries is the fixed table capacity.
	NumEntries = 10

	// imageSize is the on-disk footprint: 10 entries * 2 fields * 16 bytes.
	imageSize = NumEntries * 2 * MaxUsername

	// maxOpBlocks mirrors xv6's MAXOPBLOCKS, bounding how much a single
	// writei-style transaction may touch.
	maxOpBlocks = 10

	// writeChunk is the largest slice written in one writeAt call (spec.md
	// §6: "writei... in chunks of at most ((MAXOPBLOCKS-1-1-2)/2) x 512
	// bytes").
	writeChunk = ((maxOpBlocks - 1 - 1 - 2) / 2) * 512
)

// entry is one on-disk {username, password} slot. It is empty iff its
// first byte is 0 (spec.md §6).
type entry struct {
	username [MaxUsername]byte
	password [MaxPassword]byte
}

func (e entry) empty() bool { return e.username[0] == 0 }

func (e entry) usernameString() string {
	return trimNul(e.username[:])
}

func trimNul(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Store is the in-memory mirror of the credential-store image, write-
// through to the backing inode on every mutation (spec.md §5: "credential
// store writes are not concurrency-safe across multiple callers and rely
// on higher-layer serialisation").
type Store struct {
	mu      sync.Mutex
	inode   collab.Inode
	entries [NumEntries]entry
	current int // -1 means no logged-in user
}

// NewStore constructs a Store bound to inode, in the init'd state: no
// entries, no current user. Callers must call Load before use.
func NewStore(inode collab.Inode) *Store {
	return &Store{inode: inode, current: -1}
}

// Load reads the inode's 320-byte image, retrying transient read failures
// with exponential backoff (the teacher's containerd-client retry idiom,
// reused here since collab.Inode.ReadAt may represent a not-yet-ready
// backing store). If every entry comes back empty, it seeds the default
// root/0000 account and writes it through.
func (s *Store) Load() error {
	var buf [imageSize]byte

	op := func() error {
		_, err := s.inode.ReadAt(buf[:], 0)
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Second
	if err := backoff.Retry(op, bo); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.decodeLocked(buf[:])

	empty := true
	for _, e := range s.entries {
		if !e.empty() {
			empty = false
			break
		}
	}
	if !empty {
		log.Debugf("account: loaded credential store")
		return nil
	}

	log.Infof("account: empty credential store, seeding default user")
	s.entries[0] = makeEntry("root", "0000")
	return s.writeThroughLocked()
}

func (s *Store) decodeLocked(buf []byte) {
	for i := range s.entries {
		off := i * 2 * MaxUsername
		copy(s.entries[i].username[:], buf[off:off+MaxUsername])
		copy(s.entries[i].password[:], buf[off+MaxUsername:off+2*MaxUsername])
	}
}

func (s *Store) encodeLocked() [imageSize]byte {
	var buf [imageSize]byte
	for i, e := range s.entries {
		off := i * 2 * MaxUsername
		copy(buf[off:off+MaxUsername], e.username[:])
		copy(buf[off+MaxUsername:off+2*MaxUsername], e.password[:])
	}
	return buf
}

// writeThroughLocked rewrites the whole image in writeChunk-sized pieces,
// mirroring writei's single-op write window (spec.md §6). Must be called
// with s.mu held.
func (s *Store) writeThroughLocked() error {
	buf := s.encodeLocked()
	for off := 0; off < imageSize; off += writeChunk {
		end := off + writeChunk
		if end > imageSize {
			end = imageSize
		}
		n, err := s.inode.WriteAt(buf[off:end], int64(off))
		if err != nil {
			return err
		}
		if n != end-off {
			panic("account: short write to credential store")
		}
	}
	return nil
}

func makeEntry(username, password string) entry {
	var e entry
	copy(e.username[:], username)
	copy(e.password[:], password)
	return e
}

// Add inserts a new {username, password} pair, refusing an exact-username
// duplicate or a full table, then writes through (spec.md §4.9).
func (s *Store) Add(username, password string) error {
	if len(username) == 0 || len(username) > MaxUsername || len(password) > MaxPassword {
		return kernerr.ErrFieldTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	freeIdx := -1
	for i, e := range s.entries {
		if e.empty() {
			if freeIdx < 0 {
				freeIdx = i
			}
			continue
		}
		if e.usernameString() == username {
			return kernerr.ErrDuplicateUser
		}
	}
	if freeIdx < 0 {
		return kernerr.ErrUserTableFull
	}

	s.entries[freeIdx] = makeEntry(username, password)
	return s.writeThroughLocked()
}

// Verify scans for an exact {username, password} match and, on success,
// sets the current-user index (spec.md §4.9).
func (s *Store) Verify(username, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.empty() {
			continue
		}
		if e.usernameString() == username && trimNul(e.password[:]) == password {
			s.current = i
			return true
		}
	}
	return false
}

// Logout clears the current-user index.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = -1
}

// Current returns the logged-in username, or "" if no one is logged in.
func (s *Store) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 {
		return ""
	}
	return s.entries[s.current].usernameString()
}

// Delete is unimplemented (spec.md §4.9, §9: "deleteUser stays an
// unimplemented stub returning 0/false" — preserved from the original
// rather than fleshed out, since no caller in scope exercises it).
func (s *Store) Delete(username string) bool {
	return false
}
