// Package collab defines the narrow interfaces through which the
// scheduling core calls its external collaborators (spec.md §1: the VM
// manager and the file system are "external collaborators, invoked through
// named operations only"). Production backends for these interfaces are
// out of scope; tests use the fakes in this package.
package collab

import (
	"io"
	"sync"
)

// AddressSpace stands in for the VM manager's page-directory handle
// (pgdir in spec.md §3). allocuvm/deallocuvm/copyuvm/switchuvm are named
// operations on it; we model them as methods rather than free functions so
// a Proc can own one without the kernel package reaching into VM internals.
type AddressSpace interface {
	// Size returns the current virtual size in bytes.
	Size() uint64

	// Grow extends the address space to at least newSize bytes, returning
	// the page-aligned new size. Used by growproc (thread_create's user
	// stack allocation, spec.md §4.8).
	Grow(newSize uint64) (uint64, error)

	// Copy duplicates the address space (fork's copyuvm).
	Copy() (AddressSpace, error)

	// Close releases the address space (deallocuvm), called when a
	// process is reaped.
	Close() error
}

// Inode stands in for the file system's inode handle (cwd in spec.md §3,
// and the credential store's backing file in §4.9/§6).
type Inode interface {
	io.ReaderAt
	io.WriterAt

	// Dup increments the inode's reference count (idup).
	Dup() Inode

	// Put decrements the inode's reference count, releasing it at zero
	// (iput).
	Put()
}

// File stands in for an open-file object (ofile[i] in spec.md §3).
type File interface {
	// Dup increments the file's reference count, used when fork
	// duplicates the caller's open-file handles.
	Dup() File

	// Close releases the file's reference.
	Close() error
}

// MemAddressSpace is a minimal in-memory AddressSpace, standing in for a
// real page table the way the teacher's own unit tests stand in for
// pkg/sentry/mm with a bare byte slice. Used by tests and by
// cmd/schedcore's demonstration subcommands, neither of which needs real
// paging.
type MemAddressSpace struct {
	size uint64
}

// NewMemAddressSpace returns an address space of the given initial size.
func NewMemAddressSpace(size uint64) *MemAddressSpace {
	return &MemAddressSpace{size: size}
}

func (a *MemAddressSpace) Size() uint64 { return a.size }

func (a *MemAddressSpace) Grow(newSize uint64) (uint64, error) {
	if newSize > a.size {
		a.size = newSize
	}
	return a.size, nil
}

func (a *MemAddressSpace) Copy() (AddressSpace, error) {
	return &MemAddressSpace{size: a.size}, nil
}

func (a *MemAddressSpace) Close() error { return nil }

// MemInode is a byte-slice-backed Inode, used by tests and by
// cmd/schedcore's run/ps/kill/setpriority demo subcommands as the root
// inode. The adduser/login subcommands use a disk file instead.
type MemInode struct {
	mu   sync.Mutex
	data []byte
	refs int
}

// NewMemInode returns an Inode of the given size, all zero bytes.
func NewMemInode(size int) *MemInode {
	return &MemInode{data: make([]byte, size), refs: 1}
}

func (m *MemInode) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || int(off) > len(m.data) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MemInode) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := int(off) + len(p)
	if end > len(m.data) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	return copy(m.data[off:], p), nil
}

func (m *MemInode) Dup() Inode {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs++
	return m
}

func (m *MemInode) Put() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs--
}

// MemFile is a reference-counted no-op File, used wherever a process
// needs a non-nil Ofile entry without a real descriptor behind it.
type MemFile struct {
	mu   sync.Mutex
	refs int
}

// NewMemFile returns a File with one reference.
func NewMemFile() *MemFile { return &MemFile{refs: 1} }

func (f *MemFile) Dup() File {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs++
	return f
}

func (f *MemFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs--
	return nil
}
