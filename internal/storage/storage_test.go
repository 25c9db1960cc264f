package storage

import (
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)
	want := Snapshot{
		ID:     "abc",
		Record: []byte{1, 2, 3},
		Moves:  []string{"e2e4", "e7e5"},
		White:  "alice",
		Black:  "bob",
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != want.ID || got.White != want.White || got.Black != want.Black {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
	if string(got.Record) != string(want.Record) {
		t.Errorf("record = %v, want %v", got.Record, want.Record)
	}
	if len(got.Moves) != 2 || got.Moves[1] != "e7e5" {
		t.Errorf("moves = %v", got.Moves)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set on save")
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load error = %v, want ErrNotFound", err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		if err := s.Save(Snapshot{ID: id, UpdatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	snaps, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 || snaps[0].ID != "new" || snaps[1].ID != "old" {
		t.Fatalf("List = %+v, want new then old", snaps)
	}

	if err := s.Delete("old"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
}

func TestSaveRequiresID(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(Snapshot{}); err == nil {
		t.Fatal("Save accepted a snapshot without id")
	}
}
