package geometry

import "testing"

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d Point
		want       bool
	}{
		{"crossing diagonals", Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{10, 0}, true},
		{"parallel horizontal", Point{0, 0}, Point{10, 0}, Point{0, 5}, Point{10, 5}, false},
		{"shared endpoint", Point{0, 0}, Point{10, 0}, Point{10, 0}, Point{10, 10}, true},
		{"T junction", Point{0, 0}, Point{10, 0}, Point{5, -5}, Point{5, 0}, true},
		{"near miss", Point{0, 0}, Point{10, 0}, Point{5, 1}, Point{5, 10}, false},
		{"collinear overlapping", Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{15, 0}, true},
		{"collinear disjoint", Point{0, 0}, Point{4, 0}, Point{6, 0}, Point{10, 0}, false},
		{"collinear touching ends", Point{0, 0}, Point{5, 0}, Point{5, 0}, Point{10, 0}, true},
		{"point on segment", Point{0, 0}, Point{10, 10}, Point{5, 5}, Point{5, 5}, true},
		{"point off segment", Point{0, 0}, Point{10, 10}, Point{5, 6}, Point{5, 6}, false},
		{"crossing at lattice point", Point{-5, 0}, Point{5, 0}, Point{0, -5}, Point{0, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentsIntersect(tt.a.X, tt.a.Y, tt.b.X, tt.b.Y, tt.c.X, tt.c.Y, tt.d.X, tt.d.Y)
			if got != tt.want {
				t.Errorf("SegmentsIntersect(%v-%v, %v-%v) = %v, want %v",
					tt.a, tt.b, tt.c, tt.d, got, tt.want)
			}
			// the predicate is symmetric in its two segments
			sym := SegmentsIntersect(tt.c.X, tt.c.Y, tt.d.X, tt.d.Y, tt.a.X, tt.a.Y, tt.b.X, tt.b.Y)
			if sym != tt.want {
				t.Errorf("SegmentsIntersect is not symmetric for %v-%v vs %v-%v",
					tt.a, tt.b, tt.c, tt.d)
			}
		})
	}
}

func TestPointDistance(t *testing.T) {
	tests := []struct {
		p, q Point
		want float64
	}{
		{Point{0, 0}, Point{3, 4}, 5},
		{Point{0, 0}, Point{0, 0}, 0},
		{Point{-3, -4}, Point{0, 0}, 5},
		{Point{1, 1}, Point{1, 8}, 7},
	}

	for _, tt := range tests {
		if got := tt.p.Distance(tt.q); got != tt.want {
			t.Errorf("Distance(%v, %v) = %v, want %v", tt.p, tt.q, got, tt.want)
		}
	}
}
