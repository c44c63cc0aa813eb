package rangeset

import "testing"

func TestAddRangeContainsEndpoints(t *testing.T) {
	s := NewRange(0x43, 0x45)
	for _, item := range []uint32{0x43, 0x44, 0x45} {
		if !s.Contains(item) {
			t.Fatalf("expected range to contain 0x%x", item)
		}
	}
	if s.Contains(0x42) || s.Contains(0x46) {
		t.Fatalf("range leaked outside its bounds: %+v", s.ToSlice())
	}
}

func TestAddRangeEqualsExplicitAdds(t *testing.T) {
	a := NewRange(10, 13)
	b := New(10, 11, 12, 13)
	if !a.IsEqual(b) {
		t.Fatalf("expanded range %v != explicit set %v", a.ToSlice(), b.ToSlice())
	}
}

func TestRemove(t *testing.T) {
	s := NewRange(0, 5)
	s.Remove(2, 4)
	want := []uint32{0, 1, 3, 5}
	got := s.ToSlice()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnion(t *testing.T) {
	a := NewRange(0, 3)
	b := NewRange(2, 5)
	u := Union(a, b)
	if !u.IsEqual(NewRange(0, 5)) {
		t.Fatalf("union mismatch: %v", u.ToSlice())
	}
}

func TestIntersect(t *testing.T) {
	a := NewRange(0, 5)
	b := NewRange(3, 8)
	i := Intersect(a, b)
	if !i.IsEqual(NewRange(3, 5)) {
		t.Fatalf("intersect mismatch: %v", i.ToSlice())
	}
}

func TestIntersectDisjointIsEmpty(t *testing.T) {
	a := NewRange(0, 3)
	b := NewRange(100, 105)
	i := Intersect(a, b)
	if !i.IsEmpty() {
		t.Fatalf("expected empty intersection, got %v", i.ToSlice())
	}
}

func TestSubtract(t *testing.T) {
	a := NewRange(0, 9)
	b := NewRange(3, 5)
	d := Subtract(a, b)
	want := New(0, 1, 2, 6, 7, 8, 9)
	if !d.IsEqual(want) {
		t.Fatalf("subtract mismatch: %v", d.ToSlice())
	}
}

func TestSubtractDisjointIsNoop(t *testing.T) {
	a := NewRange(0, 3)
	b := NewRange(100, 105)
	d := Subtract(a, b)
	if !d.IsEqual(a) {
		t.Fatalf("expected untouched copy, got %v", d.ToSlice())
	}
}

func TestDenseDetectsGap(t *testing.T) {
	s := NewRange(1, 10)
	s.Remove(5)
	if s.Dense(1, 10) {
		t.Fatalf("expected a gap at 5 to be detected")
	}
	s.Add(5)
	if !s.Dense(1, 10) {
		t.Fatalf("expected no gaps after filling 5")
	}
}

func TestLen(t *testing.T) {
	s := NewRange(0, 9)
	if s.Len() != 10 {
		t.Fatalf("expected 10 items, got %d", s.Len())
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a := NewRange(0, 3)
	b := a.Copy()
	b.Add(4)
	if a.Contains(4) {
		t.Fatalf("copy should not alias the original's storage")
	}
}
