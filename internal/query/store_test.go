package query

import "testing"

func TestStoreAcceptsLatestToken(t *testing.T) {
	store := NewStore[int]()
	token := store.Begin()

	if !store.Complete(token, []int{1, 2, 3}) {
		t.Fatalf("latest token should be accepted")
	}
	snapshot := store.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("unexpected snapshot: %v", snapshot)
	}
}

func TestStoreDiscardsStaleToken(t *testing.T) {
	store := NewStore[int]()
	stale := store.Begin()
	fresh := store.Begin()

	if !store.Complete(fresh, []int{9}) {
		t.Fatalf("fresh token should be accepted")
	}
	if store.Complete(stale, []int{1, 2}) {
		t.Fatalf("stale token must be discarded")
	}
	snapshot := store.Snapshot()
	if len(snapshot) != 1 || snapshot[0] != 9 {
		t.Fatalf("stale load overwrote fresh snapshot: %v", snapshot)
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := NewStore[int]()
	token := store.Begin()
	store.Complete(token, []int{5})

	snapshot := store.Snapshot()
	snapshot[0] = 42
	if store.Snapshot()[0] != 5 {
		t.Fatalf("mutating the snapshot must not affect the store")
	}
}
