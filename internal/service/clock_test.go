package service

import (
	"errors"
	"testing"
	"time"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClock(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(10 * time.Second)
	c.now = ft.now

	ft.advance(time.Second)
	if c.TimeLeft() != 10*time.Second {
		t.Error("stopped clock lost time")
	}

	c.Start()
	ft.advance(3 * time.Second)
	if got := c.TimeLeft(); got != 7*time.Second {
		t.Errorf("running TimeLeft = %v, want 7s", got)
	}
	c.Stop()
	ft.advance(time.Minute)
	if got := c.TimeLeft(); got != 7*time.Second {
		t.Errorf("stopped TimeLeft = %v, want 7s", got)
	}

	c.Start()
	ft.advance(time.Minute)
	if c.TimeLeft() != 0 || !c.Flagged() {
		t.Errorf("TimeLeft = %v, flagged = %v", c.TimeLeft(), c.Flagged())
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := q.AddPlayer(Player{ID: "b"}); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("duplicate error = %v", err)
	}

	first, second, ok := q.NextPair()
	if !ok || first.ID != "a" || second.ID != "b" {
		t.Errorf("NextPair = %s, %s, %v", first.ID, second.ID, ok)
	}
	if _, _, ok := q.NextPair(); ok {
		t.Error("paired a lone player")
	}
	if !q.Remove("c") || q.Size() != 0 {
		t.Error("Remove did not empty the queue")
	}
}
