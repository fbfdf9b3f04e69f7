package routing

import "conduit/geometry"

// vertexType labels how a path bends around a corner vertex: toward the
// owning obstacle's center (innie) or away from it (outie).
type vertexType int

const (
	typeNotSet vertexType = iota
	typeInnie
	typeOutie
)

// vertex is a node in the visibility graph: one of the four corners of an
// obstacle, or an endpoint of a path. Corner vertices are shared by every
// path routed in the same solve, and the counting, offset and labeling
// passes mutate them in place so their state is visible across paths.
type vertex struct {
	geometry.Point // current position; diverges from orig while grown

	origX, origY int
	obs          *obstacle         // nil for path endpoints
	position     geometry.Position // which corner of obs this vertex is

	// shortest-path state, valid while a single path solves
	neighbors   []*vertex
	isPermanent bool
	label       *vertex // predecessor in the shortest-path tree
	cost        float64

	// routing state, valid across paths within one solve
	nearestObstacle        int // distance to closest foreign obstacle, 0 = unknown
	nearestObstacleChecked bool
	offset                 float64
	vtype                  vertexType
	count                  int // paths bent here so far while materializing
	totalCount             int // paths touching this vertex in total
	paths                  []*Path
	cachedCosines          map[*Path]float64
}

func newVertex(p geometry.Point, obs *obstacle) *vertex {
	return &vertex{Point: p, origX: p.X, origY: p.Y, obs: obs}
}

// addPath records that path bends at this vertex and caches the angle
// between the segment arriving here and the segment leaving.
func (v *vertex) addPath(path *Path, in, out *segment) {
	if v.cachedCosines == nil {
		v.cachedCosines = make(map[*Path]float64)
	}
	found := false
	for _, p := range v.paths {
		if p == path {
			found = true
			break
		}
	}
	if !found {
		v.paths = append(v.paths, path)
	}
	v.cachedCosines[path] = in.cosine(out)
}

// bend returns this vertex displaced outward by modifier times its offset,
// in the direction given by its corner position.
func (v *vertex) bend(modifier int) geometry.Point {
	p := geometry.Point{X: v.X, Y: v.Y}
	d := float64(modifier) * v.offset
	if v.position&geometry.North != 0 {
		p.Y = int(float64(p.Y) - d)
	} else {
		p.Y = int(float64(p.Y) + d)
	}
	if v.position&geometry.East != 0 {
		p.X = int(float64(p.X) + d)
	} else {
		p.X = int(float64(p.X) - d)
	}
	return p
}

// fullReset clears every per-solve field.
func (v *vertex) fullReset() {
	v.totalCount = 0
	v.vtype = typeNotSet
	v.count = 0
	v.cost = 0
	v.offset = float64(v.spacing())
	v.nearestObstacle = 0
	v.label = nil
	v.nearestObstacleChecked = false
	v.isPermanent = false
	if v.neighbors != nil {
		v.neighbors = v.neighbors[:0]
	}
	if v.cachedCosines != nil {
		clear(v.cachedCosines)
	}
	if v.paths != nil {
		v.paths = v.paths[:0]
	}
}

// deformedRectangle returns the region between this vertex's original and
// grown positions, padded by extra: the area the fanned-out polylines
// around this corner travel through.
func (v *vertex) deformedRectangle(extra int) geometry.Rect {
	var r geometry.Rect
	if v.position&geometry.North != 0 {
		r.Y = v.Y - extra
		r.Height = v.origY - v.Y + extra
	} else {
		r.Y = v.origY
		r.Height = v.Y - v.origY + extra
	}
	if v.position&geometry.East != 0 {
		r.X = v.origX
		r.Width = v.X - v.origX + extra
	} else {
		r.X = v.X - extra
		r.Width = v.origX - v.X + extra
	}
	return r
}

func (v *vertex) spacing() int {
	if v.obs == nil {
		return 0
	}
	return v.obs.spacing()
}

// grow pushes the vertex outward to the furthest position any path bending
// here will occupy.
func (v *vertex) grow() {
	var modifier int
	if v.nearestObstacle == 0 {
		modifier = v.totalCount * v.spacing()
	} else {
		modifier = v.nearestObstacle/2 - 1
	}
	if v.position&geometry.North != 0 {
		v.Y -= modifier
	} else {
		v.Y += modifier
	}
	if v.position&geometry.East != 0 {
		v.X += modifier
	} else {
		v.X -= modifier
	}
}

// shrink restores the vertex to its original position.
func (v *vertex) shrink() {
	v.X = v.origX
	v.Y = v.origY
}

// updateOffset divides the room before the nearest obstacle among all the
// paths sharing this corner. Integer division on purpose: offsets land on
// the lattice.
func (v *vertex) updateOffset() {
	if v.nearestObstacle != 0 {
		v.offset = float64((v.nearestObstacle/2 - 1) / v.totalCount)
	}
}
