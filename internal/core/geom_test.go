package core

import "testing"

func TestBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{
			name:     "overlapping boxes",
			a:        BoxAround(0, 0, 25),
			b:        BoxAround(30, 30, 25),
			expected: true,
		},
		{
			name:     "touching along x edge",
			a:        BoxAround(0, 0, 25),
			b:        BoxAround(50, 0, 25),
			expected: false,
		},
		{
			name:     "touching along z edge",
			a:        BoxAround(0, 0, 25),
			b:        BoxAround(0, 50, 25),
			expected: false,
		},
		{
			name:     "one unit of penetration",
			a:        BoxAround(2, 0, 25),
			b:        BoxAround(50, 0, 25),
			expected: true,
		},
		{
			name:     "separated diagonally",
			a:        BoxAround(0, 0, 25),
			b:        BoxAround(100, 100, 25),
			expected: false,
		},
		{
			name:     "contained box",
			a:        BoxAround(0, 0, 50),
			b:        BoxAround(0, 0, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxContains(t *testing.T) {
	b := BoxAround(100, 200, 50)

	tests := []struct {
		name     string
		x, z     float64
		expected bool
	}{
		{"centre", 100, 200, true},
		{"min corner inclusive", 50, 150, true},
		{"max corner inclusive", 150, 250, true},
		{"just outside x", 150.5, 200, false},
		{"just outside z", 100, 149.9, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.x, tc.z); got != tc.expected {
				t.Errorf("Contains(%v, %v) = %v, expected %v", tc.x, tc.z, got, tc.expected)
			}
		})
	}
}

func TestBoxCenter(t *testing.T) {
	x, z := BoxAround(75, -25, 25).Center()
	if x != 75 || z != -25 {
		t.Errorf("Center() = (%v, %v), expected (75, -25)", x, z)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
	}
	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}
