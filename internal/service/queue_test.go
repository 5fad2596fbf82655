package service

import (
	"errors"
	"testing"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
	if err := q.AddPlayer("b"); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("AddPlayer(b) twice error = %v, want ErrAlreadyQueued", err)
	}

	first, second, ok := q.NextPair()
	if !ok || first.ID != "a" || second.ID != "b" {
		t.Fatalf("NextPair() = %s, %s, %v; want a, b, true", first.ID, second.ID, ok)
	}
	if _, _, ok := q.NextPair(); ok {
		t.Error("NextPair() with one player should fail")
	}
	if !q.Contains("c") || q.Contains("a") {
		t.Error("queue membership wrong after pairing")
	}
	if q.Size() != 1 {
		t.Errorf("Size() = %d, want 1", q.Size())
	}
}
