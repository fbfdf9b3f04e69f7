package routing

import (
	"math"
	"testing"

	"conduit/geometry"
)

func TestVertexGrowShrinkRoundTrip(t *testing.T) {
	router := NewRouter()
	obs := newObstacle(geometry.Rect{X: 10, Y: 10, Width: 10, Height: 10}, router)

	for _, v := range []*vertex{obs.topLeft, obs.topRight, obs.bottomLeft, obs.bottomRight} {
		v.fullReset()
		v.totalCount = 3
		before := v.Point
		v.grow()
		if v.Point == before {
			t.Errorf("grow did not move corner %v", before)
		}
		v.shrink()
		if v.Point != before {
			t.Errorf("grow then shrink moved corner from %v to %v", before, v.Point)
		}
	}
}

func TestVertexGrowDirections(t *testing.T) {
	router := NewRouter()
	obs := newObstacle(geometry.Rect{X: 10, Y: 10, Width: 10, Height: 10}, router)

	tests := []struct {
		name   string
		v      *vertex
		dx, dy int
	}{
		{"top-left grows up-left", obs.topLeft, -1, -1},
		{"top-right grows up-right", obs.topRight, 1, -1},
		{"bottom-left grows down-left", obs.bottomLeft, -1, 1},
		{"bottom-right grows down-right", obs.bottomRight, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.v.fullReset()
			tt.v.totalCount = 1
			before := tt.v.Point
			tt.v.grow()
			// modifier is totalCount * spacing = 4
			want := geometry.Point{X: before.X + 4*tt.dx, Y: before.Y + 4*tt.dy}
			if tt.v.Point != want {
				t.Errorf("grew to %v, want %v", tt.v.Point, want)
			}
			tt.v.shrink()
		})
	}
}

func TestVertexBendDirection(t *testing.T) {
	router := NewRouter()
	obs := newObstacle(geometry.Rect{X: 10, Y: 10, Width: 10, Height: 10}, router)

	v := obs.bottomLeft
	v.fullReset()
	// bottom-left bends down and left, further with a larger modifier
	p1 := v.bend(1)
	p2 := v.bend(2)
	if !(p1.X < v.X && p1.Y > v.Y) {
		t.Errorf("bend(1) = %v, want below-left of %v", p1, v.Point)
	}
	if !(p2.X < p1.X && p2.Y > p1.Y) {
		t.Errorf("bend(2) = %v should be further out than bend(1) = %v", p2, p1)
	}
}

func TestVertexOffsetFromNearestObstacle(t *testing.T) {
	router := NewRouter()
	obs := newObstacle(geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, router)

	v := obs.topRight
	v.fullReset()
	v.totalCount = 2
	v.nearestObstacle = 14
	v.updateOffset()
	// (14/2 - 1) / 2 with integer division
	if v.offset != 3 {
		t.Errorf("offset = %v, want 3", v.offset)
	}

	v.nearestObstacle = 9
	v.updateOffset()
	// (9/2 - 1) / 2 = 3 / 2 = 1
	if v.offset != 1 {
		t.Errorf("offset = %v, want 1", v.offset)
	}
}

func TestObstacleCorners(t *testing.T) {
	router := NewRouter()
	obs := newObstacle(geometry.Rect{X: 2, Y: 3, Width: 4, Height: 5}, router)

	if obs.topLeft.Point != (geometry.Point{2, 3}) {
		t.Errorf("topLeft = %v", obs.topLeft.Point)
	}
	if obs.topRight.Point != (geometry.Point{5, 3}) {
		t.Errorf("topRight = %v", obs.topRight.Point)
	}
	if obs.bottomLeft.Point != (geometry.Point{2, 7}) {
		t.Errorf("bottomLeft = %v", obs.bottomLeft.Point)
	}
	if obs.bottomRight.Point != (geometry.Point{5, 7}) {
		t.Errorf("bottomRight = %v", obs.bottomRight.Point)
	}
	if obs.center.Point != (geometry.Point{4, 5}) {
		t.Errorf("center = %v", obs.center.Point)
	}
}

func TestObstacleContainsProper(t *testing.T) {
	router := NewRouter()
	obs := newObstacle(geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, router)

	tests := []struct {
		p    geometry.Point
		want bool
	}{
		{geometry.Point{5, 5}, true},
		{geometry.Point{0, 5}, false},  // left edge
		{geometry.Point{9, 5}, false},  // right corner column
		{geometry.Point{5, 0}, false},  // top edge
		{geometry.Point{5, 9}, false},  // bottom corner row
		{geometry.Point{1, 1}, true},
		{geometry.Point{8, 8}, true},
	}
	for _, tt := range tests {
		if got := obs.containsProper(tt.p); got != tt.want {
			t.Errorf("containsProper(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSegmentSlopeSign(t *testing.T) {
	v := func(x, y int) *vertex { return newVertex(geometry.Point{x, y}, nil) }

	tests := []struct {
		name     string
		seg      *segment
		negative bool
	}{
		{"down-right", &segment{v(0, 0), v(5, 5)}, false},
		{"up-right", &segment{v(0, 5), v(5, 0)}, true},
		{"down-left", &segment{v(5, 0), v(0, 5)}, true},
		{"up-left", &segment{v(5, 5), v(0, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.slopeSign() < 0; got != tt.negative {
				t.Errorf("slopeSign() < 0 = %v, want %v", got, tt.negative)
			}
		})
	}
}

func TestSegmentCosine(t *testing.T) {
	v := func(x, y int) *vertex { return newVertex(geometry.Point{x, y}, nil) }

	// a straight continuation measures near zero
	in := &segment{v(0, 0), v(10, 0)}
	out := &segment{v(10, 0), v(20, 0)}
	if got := in.cosine(out); math.Abs(got) > 1e-9 {
		t.Errorf("straight continuation cosine = %v, want 0", got)
	}

	// turns to either side land on opposite signs
	left := &segment{v(10, 0), v(20, -10)}
	right := &segment{v(10, 0), v(20, 10)}
	cl := in.cosine(left)
	cr := in.cosine(right)
	if cl == 0 || cr == 0 || (cl < 0) == (cr < 0) {
		t.Errorf("left/right turns should have opposite signs, got %v and %v", cl, cr)
	}

	// a sharper turn measures further from zero
	sharper := &segment{v(10, 0), v(0, 10)}
	if math.Abs(in.cosine(sharper)) <= math.Abs(cr) {
		t.Errorf("sharper turn %v should exceed shallow turn %v", in.cosine(sharper), cr)
	}
}

func TestSegmentCrossProductSign(t *testing.T) {
	v := func(x, y int) *vertex { return newVertex(geometry.Point{x, y}, nil) }

	seg := &segment{v(0, 0), v(10, 0)}
	below := &segment{v(10, 0), v(5, 5)}
	above := &segment{v(10, 0), v(5, -5)}

	cb := seg.crossProduct(below)
	ca := seg.crossProduct(above)
	if cb == 0 || ca == 0 || (cb < 0) == (ca < 0) {
		t.Errorf("cross products to either side should differ in sign: %v vs %v", cb, ca)
	}
}

func TestVertexSetKeepsInsertionOrder(t *testing.T) {
	s := newVertexSet()
	a := newVertex(geometry.Point{0, 0}, nil)
	b := newVertex(geometry.Point{1, 0}, nil)
	c := newVertex(geometry.Point{2, 0}, nil)

	s.add(b)
	s.add(a)
	s.add(c)
	s.add(b) // duplicate, ignored

	if s.size() != 3 {
		t.Fatalf("size = %d, want 3", s.size())
	}
	want := []*vertex{b, a, c}
	for i, v := range s.items {
		if v != want[i] {
			t.Fatalf("items[%d] = %v, want %v", i, v.Point, want[i].Point)
		}
	}

	s.clear()
	if s.size() != 0 {
		t.Fatalf("size after clear = %d", s.size())
	}
	s.add(a)
	if s.size() != 1 {
		t.Fatalf("set unusable after clear")
	}
}

func TestObstacleSetAddAll(t *testing.T) {
	router := NewRouter()
	o1 := newObstacle(geometry.Rect{X: 0, Y: 0, Width: 2, Height: 2}, router)
	o2 := newObstacle(geometry.Rect{X: 5, Y: 0, Width: 2, Height: 2}, router)

	a := newObstacleSet()
	a.add(o1)
	b := newObstacleSet()
	b.add(o1)
	b.add(o2)

	a.addAll(b)
	if len(a.items) != 2 {
		t.Fatalf("addAll produced %d items, want 2", len(a.items))
	}
	if !a.contains(o2) {
		t.Fatal("addAll lost an obstacle")
	}
}

func TestThresholdRetryFindsLongDetour(t *testing.T) {
	// a long wall forces a route far outside the initial pruning oval; the
	// solve must fall back to an unpruned search and still find it
	router := NewRouter()
	wall := geometry.Rect{X: 10, Y: -100, Width: 4, Height: 200}
	router.AddObstacle(wall)
	path := NewPath(geometry.Point{0, 0}, geometry.Point{30, 0})
	router.AddPath(path)

	points := solveOne(t, router, path)
	if len(points) < 3 {
		t.Fatalf("expected a detour around the wall, got %v", points)
	}
	assertAvoids(t, points, []geometry.Rect{wall})
}

func TestPathExclusionOnBoundary(t *testing.T) {
	// an endpoint on an obstacle's boundary edge does not exclude it; the
	// path escapes through that edge's corners instead
	router := NewRouter()
	block := geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	router.AddObstacle(block)
	path := NewPath(geometry.Point{0, 5}, geometry.Point{20, 5})
	router.AddPath(path)

	points := solveOne(t, router, path)
	if len(points) < 2 {
		t.Fatalf("no route found from the boundary: %v", points)
	}
	if points[0] != (geometry.Point{0, 5}) || points[len(points)-1] != (geometry.Point{20, 5}) {
		t.Fatalf("route does not join the endpoints: %v", points)
	}
}

func TestPathDataSlot(t *testing.T) {
	path := NewPath(geometry.Point{0, 0}, geometry.Point{1, 1})
	path.Data = "client payload"

	router := NewRouter()
	router.AddPath(path)
	solveOne(t, router, path)

	if path.Data != "client payload" {
		t.Errorf("Data slot was touched by the solve: %v", path.Data)
	}
}
