package seq

import "testing"

func TestPushGetLen(t *testing.T) {
	s := New[int]()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	s.Push(10)
	s.Push(20)
	s.Push(30)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	for i, want := range []int{10, 20, 30} {
		got, ok := s.Get(i)
		if !ok || got != want {
			t.Errorf("Get(%d) = (%d, %v), want (%d, true)", i, got, ok, want)
		}
	}
}

func TestGetOutOfBounds(t *testing.T) {
	s := New[string]()
	s.Push("a")
	if _, ok := s.Get(-1); ok {
		t.Error("Get(-1) succeeded, want false")
	}
	if _, ok := s.Get(1); ok {
		t.Error("Get(1) succeeded, want false")
	}
}

func TestPopPreservesOrderOfRemaining(t *testing.T) {
	s := New[int]()
	for _, v := range []int{1, 2, 3, 4, 5} {
		s.Push(v)
	}
	v, ok := s.Pop(1)
	if !ok || v != 2 {
		t.Fatalf("Pop(1) = (%d, %v), want (2, true)", v, ok)
	}
	want := []int{1, 3, 4, 5}
	if s.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(want))
	}
	for i, w := range want {
		got, _ := s.Get(i)
		if got != w {
			t.Errorf("Get(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestPopOutOfBoundsLeavesSequenceUnchanged(t *testing.T) {
	s := New[int]()
	s.Push(1)
	s.Push(2)
	if _, ok := s.Pop(5); ok {
		t.Error("Pop(5) succeeded, want false")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (unchanged)", s.Len())
	}
}

func TestShrinkToFit(t *testing.T) {
	s := New[int]()
	for i := 0; i < 5; i++ {
		s.Push(i)
	}
	s.Pop(0)
	s.Pop(0)
	before := s.Len()
	s.ShrinkToFit()
	if s.Len() != before {
		t.Errorf("ShrinkToFit changed Len(): got %d, want %d", s.Len(), before)
	}
	if cap(s.Slice()) != s.Len() {
		t.Errorf("cap after ShrinkToFit = %d, want %d", cap(s.Slice()), s.Len())
	}
}

func TestSliceReflectsCurrentContents(t *testing.T) {
	s := New[string]()
	s.Push("x")
	s.Push("y")
	got := s.Slice()
	want := []string{"x", "y"}
	if len(got) != len(want) {
		t.Fatalf("Slice() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
