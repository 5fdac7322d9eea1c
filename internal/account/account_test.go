package account_test

import (
	"testing"

	"github.com/talismancer/schedcore/internal/account"
	"github.com/talismancer/schedcore/internal/collab"
	"github.com/talismancer/schedcore/internal/kernerr"
)

func TestLoadSeedsDefaultRootUser(t *testing.T) {
	inode := collab.NewMemInode(account.NumEntries * 2 * account.MaxUsername)
	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !store.Verify("root", "0000") {
		t.Fatalf("Verify(root, 0000) = false on a freshly seeded store")
	}
}

func TestAddThenReloadRoundTrips(t *testing.T) {
	inode := collab.NewMemInode(account.NumEntries * 2 * account.MaxUsername)

	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := store.Add("alice", "aaa"); err != nil {
		t.Fatalf("Add(alice): %v", err)
	}
	if err := store.Add("bob", "bbb"); err != nil {
		t.Fatalf("Add(bob): %v", err)
	}

	reloaded := account.NewStore(inode)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Verify("bob", "bbb") {
		t.Fatalf("Verify(bob, bbb) = false after reload")
	}
	if got := reloaded.Current(); got != "bob" {
		t.Fatalf("Current() = %q, want %q", got, "bob")
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	inode := collab.NewMemInode(account.NumEntries * 2 * account.MaxUsername)
	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := store.Add("alice", "aaa"); err != nil {
		t.Fatalf("Add(alice): %v", err)
	}
	if err := store.Add("alice", "different"); err != kernerr.ErrDuplicateUser {
		t.Fatalf("Add(alice) again = %v, want ErrDuplicateUser", err)
	}
}

func TestAddOverflowLeavesTableAtCapacity(t *testing.T) {
	inode := collab.NewMemInode(account.NumEntries * 2 * account.MaxUsername)
	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The store seeds "root" on Load, leaving NumEntries-1 free slots.
	for i := 0; i < account.NumEntries-1; i++ {
		name := string(rune('a' + i))
		if err := store.Add(name, "pw"); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if err := store.Add("overflow", "pw"); err != kernerr.ErrUserTableFull {
		t.Fatalf("Add at capacity = %v, want ErrUserTableFull", err)
	}
}

func TestLogoutClearsCurrentUser(t *testing.T) {
	inode := collab.NewMemInode(account.NumEntries * 2 * account.MaxUsername)
	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !store.Verify("root", "0000") {
		t.Fatalf("Verify(root, 0000) = false")
	}
	store.Logout()
	if got := store.Current(); got != "" {
		t.Fatalf("Current() after Logout = %q, want empty", got)
	}
}

func TestDeleteIsAnUnimplementedStub(t *testing.T) {
	inode := collab.NewMemInode(account.NumEntries * 2 * account.MaxUsername)
	store := account.NewStore(inode)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Delete("root") {
		t.Fatalf("Delete(root) = true, want false (spec.md §4.9: unimplemented)")
	}
	if !store.Verify("root", "0000") {
		t.Fatalf("Delete removed an entry despite being a stub")
	}
}
