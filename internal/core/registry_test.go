package core

import "testing"

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("c1")

	if replaced := r.Register("alice", alice); replaced != nil {
		t.Fatalf("unexpected replaced client: %+v", replaced)
	}

	got, ok := r.Lookup("alice")
	if !ok || got != alice {
		t.Fatalf("lookup failed: got %+v ok=%v", got, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
}

func TestRegistryReplaceOnReregister(t *testing.T) {
	r := NewRegistry()
	old := NewClient("c1")
	fresh := NewClient("c2")

	r.Register("alice", old)
	replaced := r.Register("alice", fresh)

	if replaced != old {
		t.Fatalf("expected old client returned, got %+v", replaced)
	}
	got, ok := r.Lookup("alice")
	if !ok || got != fresh {
		t.Fatalf("expected fresh connection to win, got %+v", got)
	}
	if r.Len() != 1 {
		t.Fatalf("expected single entry after replace, got %d", r.Len())
	}

	// The stale handle must no longer unregister alice.
	if r.Unregister("c1") {
		t.Fatal("stale handle should be unknown after replace")
	}
	if _, ok := r.Lookup("alice"); !ok {
		t.Fatal("alice should still be registered")
	}
}

func TestRegistryRegisterSameClientTwice(t *testing.T) {
	r := NewRegistry()
	c := NewClient("c1")

	r.Register("alice", c)
	if replaced := r.Register("alice", c); replaced != nil {
		t.Fatalf("re-registering the same connection should be a no-op, got %+v", replaced)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
}

func TestRegistryUnregisterSymmetry(t *testing.T) {
	r := NewRegistry()
	c := NewClient("c1")
	r.Register("alice", c)

	if !r.Unregister("c1") {
		t.Fatal("expected unregister to remove the entry")
	}
	if _, ok := r.Lookup("alice"); ok {
		t.Fatal("alice should be gone after unregister")
	}

	// Second unregister is a no-op, not an error.
	if r.Unregister("c1") {
		t.Fatal("second unregister should report nothing removed")
	}
}

func TestRegistryConnAnnouncesNewIdentity(t *testing.T) {
	r := NewRegistry()
	c := NewClient("c1")

	r.Register("alice", c)
	r.Register("alice2", c)

	if _, ok := r.Lookup("alice"); ok {
		t.Fatal("old identity should be released when the connection re-announces")
	}
	got, ok := r.Lookup("alice2")
	if !ok || got != c {
		t.Fatalf("new identity not registered: %+v ok=%v", got, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
}

func TestRegistrySnapshotOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", NewClient("c1"))
	r.Register("u2", NewClient("c2"))
	r.Register("u3", NewClient("c3"))
	r.Unregister("c2")
	r.Register("u4", NewClient("c4"))

	snapshot := r.Snapshot()
	want := []string{"u1", "u3", "u4"}
	if len(snapshot) != len(want) {
		t.Fatalf("snapshot length: got %d want %d", len(snapshot), len(want))
	}
	for i, p := range snapshot {
		if p.UserID != want[i] {
			t.Fatalf("snapshot[%d]: got %q want %q", i, p.UserID, want[i])
		}
	}
}
