package watchlist

import (
	"context"
	"math/rand"
	"testing"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/logging"
	"github.com/mmcdole/cinescope/internal/session"
	"github.com/mmcdole/cinescope/internal/testutil"
)

func newTestStore(kv *testutil.MemKV) *Store {
	return NewStore(NewRepository(kv, ""), logging.NullLogger())
}

func ids(items []domain.Movie) []int64 {
	out := make([]int64, len(items))
	for i, m := range items {
		out[i] = m.ID
	}
	return out
}

func TestStore_AddContainsRemove(t *testing.T) {
	s := newTestStore(testutil.NewMemKV())
	s.Restore(true)

	m := testutil.Movie(42, "Inception")
	if !s.Add(m) {
		t.Fatal("Add() = false for new item")
	}
	if !s.Contains(42) {
		t.Error("Contains(42) = false after Add")
	}
	if !s.Remove(42) {
		t.Fatal("Remove() = false for present item")
	}
	if s.Contains(42) {
		t.Error("Contains(42) = true after Remove")
	}
	if s.Remove(42) {
		t.Error("Remove() of absent item reported a change")
	}
}

func TestStore_AddIsIdempotent(t *testing.T) {
	s := newTestStore(testutil.NewMemKV())
	s.Restore(true)

	m := testutil.Movie(7, "Heat")
	s.Add(m)
	if s.Add(m) {
		t.Error("second Add() reported a change")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_NewestFirst(t *testing.T) {
	s := newTestStore(testutil.NewMemKV())
	s.Restore(true)

	s.Add(testutil.Movie(1, "A"))
	s.Add(testutil.Movie(2, "B"))
	s.Add(testutil.Movie(3, "C"))
	s.Add(testutil.Movie(2, "B again"))

	got := ids(s.Items())
	want := []int64{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Items() = %v, want %v", got, want)
		}
	}

	s.Remove(2)
	if got := ids(s.Items()); len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("Items() after Remove(2) = %v, want [3 1]", got)
	}
}

func TestStore_UniqueUnderRandomOps(t *testing.T) {
	s := newTestStore(testutil.NewMemKV())
	s.Restore(true)

	rng := rand.New(rand.NewSource(1))
	present := map[int64]bool{}
	for i := 0; i < 2000; i++ {
		id := int64(rng.Intn(20))
		if rng.Intn(3) == 0 {
			s.Remove(id)
			delete(present, id)
		} else {
			s.Add(testutil.Movie(id, "m"))
			present[id] = true
		}

		seen := map[int64]bool{}
		for _, m := range s.Items() {
			if seen[m.ID] {
				t.Fatalf("duplicate id %d after op %d", m.ID, i)
			}
			seen[m.ID] = true
		}
		if len(seen) != len(present) {
			t.Fatalf("op %d: list has %d ids, model has %d", i, len(seen), len(present))
		}
	}
}

func TestStore_AnonymousIsAlwaysEmpty(t *testing.T) {
	kv := testutil.NewMemKV()
	s := newTestStore(kv)

	if s.Add(testutil.Movie(1, "A")) {
		t.Error("Add() while anonymous reported a change")
	}
	if s.Len() != 0 || s.Contains(1) {
		t.Error("anonymous list is not empty")
	}
	if kv.Has(KeyWatchlist) {
		t.Error("anonymous Add() persisted a list")
	}
	if s.Toggle(testutil.Movie(1, "A")) {
		t.Error("Toggle() while anonymous reported membership")
	}
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	kv := testutil.NewMemKV()
	s := newTestStore(kv)
	s.Restore(true)

	s.Add(testutil.Movie(1, "A"))
	s.Add(testutil.Movie(2, "B"))

	loaded, err := NewRepository(kv, "").Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(loaded); len(got) != 2 || got[0] != 2 {
		t.Errorf("persisted ids = %v, want [2 1]", got)
	}

	s.Remove(2)
	loaded, _ = NewRepository(kv, "").Load()
	if got := ids(loaded); len(got) != 1 || got[0] != 1 {
		t.Errorf("persisted ids after Remove = %v, want [1]", got)
	}
}

func TestStore_SaveFailureDoesNotRollBack(t *testing.T) {
	kv := testutil.NewMemKV()
	s := newTestStore(kv)
	s.Restore(true)
	kv.FailSet = true

	if !s.Add(testutil.Movie(5, "E")) {
		t.Fatal("Add() = false with failing storage")
	}
	if !s.Contains(5) {
		t.Error("in-memory add was rolled back")
	}
	if kv.Has(KeyWatchlist) {
		t.Error("failing storage should not hold the list")
	}
}

func TestStore_RestoreLoadsPersisted(t *testing.T) {
	kv := testutil.NewMemKV()
	kv.Put(KeyWatchlist, `[{"id":3,"title":"C"},{"id":1,"title":"A"},{"id":3,"title":"dup"}]`)
	s := newTestStore(kv)

	s.Restore(true)

	if got := ids(s.Items()); len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("Items() = %v, want [3 1]", got)
	}
}

func TestStore_RestoreCorruptIsEmpty(t *testing.T) {
	kv := testutil.NewMemKV()
	kv.Put(KeyWatchlist, `[{"id":3,`)
	s := newTestStore(kv)

	s.Restore(true)
	if s.Len() != 0 {
		t.Errorf("Len() = %d after corrupt restore, want 0", s.Len())
	}
	// Still usable
	if !s.Add(testutil.Movie(9, "I")) {
		t.Error("Add() after corrupt restore failed")
	}
}

func TestStore_RestoreAnonymousErases(t *testing.T) {
	kv := testutil.NewMemKV()
	s := newTestStore(kv)
	s.Restore(true)
	s.Add(testutil.Movie(42, "X"))

	s.Restore(false)

	if s.Contains(42) || s.Len() != 0 {
		t.Error("list not cleared on anonymous restore")
	}
	if kv.Has(KeyWatchlist) {
		t.Error("persisted list not erased")
	}
}

func TestStore_Toggle(t *testing.T) {
	s := newTestStore(testutil.NewMemKV())
	s.Restore(true)
	m := testutil.Movie(11, "K")

	if !s.Toggle(m) {
		t.Error("Toggle() on absent item should add it")
	}
	if s.Toggle(m) {
		t.Error("Toggle() on present item should remove it")
	}
	if s.Contains(11) {
		t.Error("item still present after second Toggle()")
	}
}

func TestStore_NamespacedKey(t *testing.T) {
	kv := testutil.NewMemKV()
	s := NewStore(NewRepository(kv, "work:"), logging.NullLogger())
	s.Restore(true)
	s.Add(testutil.Movie(1, "A"))

	if !kv.Has("work:" + KeyWatchlist) {
		t.Error("namespaced key not written")
	}
	if kv.Has(KeyWatchlist) {
		t.Error("bare key written despite namespace")
	}
}

// Follows a session through login, logout and a second login.
func TestStore_FollowsSession(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()
	auth := testutil.NewFakeAuth("alice", "pw", "bob", "pw2")

	sess := session.NewStore(auth, session.NewRepository(kv, ""), logging.NullLogger())
	list := newTestStore(kv)
	sess.Subscribe(list)
	sess.Restore()

	if err := sess.Login(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	if got := sess.Session().UserName(); got != "alice" {
		t.Fatalf("user = %q, want alice", got)
	}

	list.Add(testutil.Movie(42, "Answer"))
	if !list.Contains(42) {
		t.Fatal("Contains(42) = false after Add")
	}

	sess.Logout()
	if list.Contains(42) {
		t.Error("Contains(42) = true after logout")
	}
	if kv.Has(KeyWatchlist) {
		t.Error("persisted list present after logout")
	}

	if err := sess.Login(ctx, "bob", "pw2"); err != nil {
		t.Fatal(err)
	}
	if list.Len() != 0 {
		t.Errorf("fresh login sees %d items, want 0", list.Len())
	}
	list.Add(testutil.Movie(42, "Answer"))
	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
}

// A restart with a persisted session brings back the same list.
func TestStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()
	auth := testutil.NewFakeAuth("alice", "pw")

	sess := session.NewStore(auth, session.NewRepository(kv, ""), logging.NullLogger())
	list := newTestStore(kv)
	sess.Subscribe(list)
	sess.Restore()
	if err := sess.Login(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	list.Add(testutil.Movie(1, "A"))
	list.Add(testutil.Movie(2, "B"))

	sess2 := session.NewStore(auth, session.NewRepository(kv, ""), logging.NullLogger())
	list2 := newTestStore(kv)
	sess2.Subscribe(list2)
	sess2.Restore()

	if got := ids(list2.Items()); len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("restored Items() = %v, want [2 1]", got)
	}
}

// A second login as someone else, with no logout in between, must not see
// the first user's list.
func TestStore_UserSwitchStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()
	auth := testutil.NewFakeAuth("alice", "pw", "bob", "pw2")

	sess := session.NewStore(auth, session.NewRepository(kv, ""), logging.NullLogger())
	list := newTestStore(kv)
	sess.Subscribe(list)
	sess.Restore()

	if err := sess.Login(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	list.Add(testutil.Movie(42, "Answer"))

	if err := sess.Login(ctx, "bob", "pw2"); err != nil {
		t.Fatal(err)
	}
	if got := sess.Session().UserName(); got != "bob" {
		t.Fatalf("user = %q, want bob", got)
	}
	if list.Contains(42) || list.Len() != 0 {
		t.Errorf("bob sees alice's list: %v", ids(list.Items()))
	}
	if kv.Has(KeyWatchlist) {
		t.Error("alice's persisted list survived the user switch")
	}

	// A restart keeps bob's own list, not alice's
	list.Add(testutil.Movie(7, "Seven"))
	sess2 := session.NewStore(auth, session.NewRepository(kv, ""), logging.NullLogger())
	list2 := newTestStore(kv)
	sess2.Subscribe(list2)
	sess2.Restore()
	if got := ids(list2.Items()); len(got) != 1 || got[0] != 7 {
		t.Errorf("restored Items() = %v, want [7]", got)
	}
}

func TestStore_SameUserReloginKeepsList(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()
	auth := testutil.NewFakeAuth("alice", "pw")

	sess := session.NewStore(auth, session.NewRepository(kv, ""), logging.NullLogger())
	list := newTestStore(kv)
	sess.Subscribe(list)
	sess.Restore()

	if err := sess.Login(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	list.Add(testutil.Movie(42, "Answer"))
	if err := sess.Login(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	if !list.Contains(42) {
		t.Error("logging in again as the same user dropped the list")
	}
}
