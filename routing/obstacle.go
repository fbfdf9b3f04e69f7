package routing

import "conduit/geometry"

// obstacle is a rectangle paths must bend around. Its four corner vertices
// sit on the inclusive boundary (the right and bottom edges of a Rect are
// exclusive, so the corners use Right()-1 and Bottom()-1), and are shared
// by every path routed in the same solve.
type obstacle struct {
	geometry.Rect

	// exclude is set while a single path solves, meaning "ignore me for
	// intersection testing because I contain that path's endpoint".
	exclude bool

	topLeft     *vertex
	topRight    *vertex
	bottomLeft  *vertex
	bottomRight *vertex
	center      *vertex

	router *Router
}

func newObstacle(r geometry.Rect, router *Router) *obstacle {
	o := &obstacle{Rect: r, router: router}
	o.topLeft = newVertex(geometry.Point{X: r.X, Y: r.Y}, o)
	o.topLeft.position = geometry.NorthWest
	o.topRight = newVertex(geometry.Point{X: r.Right() - 1, Y: r.Y}, o)
	o.topRight.position = geometry.NorthEast
	o.bottomLeft = newVertex(geometry.Point{X: r.X, Y: r.Bottom() - 1}, o)
	o.bottomLeft.position = geometry.SouthWest
	o.bottomRight = newVertex(geometry.Point{X: r.Right() - 1, Y: r.Bottom() - 1}, o)
	o.bottomRight.position = geometry.SouthEast
	o.center = newVertex(r.Center(), o)
	return o
}

// containsProper reports whether p lies strictly inside the obstacle,
// excluding all four boundary edges.
func (o *obstacle) containsProper(p geometry.Point) bool {
	return p.X > o.X && p.X < o.X+o.Width-1 &&
		p.Y > o.Y && p.Y < o.Y+o.Height-1
}

func (o *obstacle) spacing() int {
	return o.router.Spacing()
}

// growVertices pushes all four corners outward to the furthest position
// the paths bending there will occupy (see vertex.grow). Corners no path
// touches stay put.
func (o *obstacle) growVertices() {
	growVertex(o.topLeft)
	growVertex(o.topRight)
	growVertex(o.bottomLeft)
	growVertex(o.bottomRight)
}

// shrinkVertices restores all four corners to their original positions.
func (o *obstacle) shrinkVertices() {
	shrinkVertex(o.topLeft)
	shrinkVertex(o.topRight)
	shrinkVertex(o.bottomLeft)
	shrinkVertex(o.bottomRight)
}

func growVertex(v *vertex) {
	if v.totalCount > 0 {
		v.grow()
	}
}

func shrinkVertex(v *vertex) {
	if v.totalCount > 0 {
		v.shrink()
	}
}

// reset clears the per-solve state on all four corners.
func (o *obstacle) reset() {
	o.topLeft.fullReset()
	o.topRight.fullReset()
	o.bottomLeft.fullReset()
	o.bottomRight.fullReset()
}
