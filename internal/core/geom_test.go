package core

import "testing"

func TestPointAdd(t *testing.T) {
	p := Point{X: 5, Y: 11}.Add(Point{X: 1, Y: 0})
	if p != (Point{X: 6, Y: 11}) {
		t.Errorf("Add() = %v, expected (6, 11)", p)
	}
}

func TestPointManhattan(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected int
	}{
		{"same point", Point{3, 3}, Point{3, 3}, 0},
		{"horizontal", Point{0, 0}, Point{7, 0}, 7},
		{"vertical", Point{2, 9}, Point{2, 1}, 8},
		{"diagonal", Point{5, 11}, Point{32, 4}, 34},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Manhattan(tc.b); got != tc.expected {
				t.Errorf("Manhattan() = %d, expected %d", got, tc.expected)
			}
			if got := tc.b.Manhattan(tc.a); got != tc.expected {
				t.Errorf("Manhattan() (reversed) = %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 38, 22)

	tests := []struct {
		name     string
		p        Point
		expected bool
	}{
		{"inside", Point{5, 11}, true},
		{"top-left corner", Point{0, 0}, true},
		{"bottom-right cell", Point{37, 21}, true},
		{"right edge (exclusive)", Point{38, 11}, false},
		{"bottom edge (exclusive)", Point{5, 22}, false},
		{"outside left", Point{-1, 11}, false},
		{"outside top", Point{5, -1}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 1, 10, 5},   // within range
		{-5, 1, 10, 1},  // below min
		{15, 1, 10, 10}, // above max
		{1, 1, 10, 1},   // at min
		{10, 1, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
	if Abs(0) != 0 {
		t.Error("Abs(0) should be 0")
	}
}
