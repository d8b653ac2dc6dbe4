package geode

import "testing"

func TestUnboundedInterval(t *testing.T) {
	iv := UnboundedInterval()
	if !iv.Contains(MinTime) || !iv.Contains(0) || !iv.Contains(MaxTime) {
		t.Error("unbounded interval should contain all of time")
	}
	if iv.IsEmpty() {
		t.Error("unbounded interval is not empty")
	}
}

func TestIntervalContains(t *testing.T) {
	iv := TimeInterval{Start: 1, Stop: 5}
	for _, tc := range []struct {
		t    float64
		want bool
	}{
		{0.999, false}, {1, true}, {3, true}, {5, true}, {5.001, false},
	} {
		if got := iv.Contains(tc.t); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestIntervalIsEmpty(t *testing.T) {
	if (TimeInterval{Start: 2, Stop: 1}).IsEmpty() != true {
		t.Error("inverted interval should be empty")
	}
	if (TimeInterval{Start: 1, Stop: 1}).IsEmpty() {
		t.Error("single-instant interval is not empty")
	}
}

func TestIntervalIntersect(t *testing.T) {
	a := TimeInterval{Start: 0, Stop: 10}
	b := TimeInterval{Start: 5, Stop: 15}
	got := a.Intersect(b)
	if got.Start != 5 || got.Stop != 10 {
		t.Errorf("Intersect = %+v, want [5, 10]", got)
	}

	c := TimeInterval{Start: 20, Stop: 30}
	if !a.Intersect(c).IsEmpty() {
		t.Error("disjoint intervals should intersect to empty")
	}

	if got := a.Intersect(UnboundedInterval()); got != a {
		t.Errorf("intersect with unbounded = %+v, want %+v", got, a)
	}
}
