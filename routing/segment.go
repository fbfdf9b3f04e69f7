package routing

import "conduit/geometry"

// segment is a straight line between two vertices.
type segment struct {
	start, end *vertex
}

// crossProduct returns the cross product of this segment and the other,
// both taken relative to the other segment's end point. The sign says
// which way the pair turns.
func (s *segment) crossProduct(o *segment) int64 {
	return int64(s.start.X-o.end.X)*int64(s.end.Y-o.end.Y) -
		int64(s.start.Y-o.end.Y)*int64(s.end.X-o.end.X)
}

func (s *segment) length() float64 {
	return s.end.Distance(s.start.Point)
}

// cosine measures the angle made with the other segment on a scale that is
// monotone in the turn: results near 0 mean a straight continuation, near
// ±2 a full reversal, with the sign carrying the turn direction. Paths
// sharing a corner are ordered by this value.
func (s *segment) cosine(o *segment) float64 {
	cos := (float64(s.start.X-s.end.X)*float64(o.end.X-o.start.X) +
		float64(s.start.Y-s.end.Y)*float64(o.end.Y-o.start.Y)) /
		(s.length() * o.length())
	sin := float64(s.start.X-s.end.X)*float64(o.end.Y-o.start.Y) -
		float64(s.start.Y-s.end.Y)*float64(o.end.X-o.start.X)
	if sin < 0 {
		return 1 + cos
	}
	return -(1 + cos)
}

// slopeSign returns a number whose sign matches the sign of the segment's
// slope. It is not the slope itself.
func (s *segment) slopeSign() int {
	if s.end.X-s.start.X >= 0 {
		return s.end.Y - s.start.Y
	}
	return -(s.end.Y - s.start.Y)
}

// intersects reports whether the segment crosses the one from (sx,sy) to
// (tx,ty). Shared endpoints count.
func (s *segment) intersects(sx, sy, tx, ty int) bool {
	return geometry.SegmentsIntersect(s.start.X, s.start.Y, s.end.X, s.end.Y, sx, sy, tx, ty)
}

// intersectsPoints reports whether the segment crosses the one from a to b.
func (s *segment) intersectsPoints(a, b geometry.Point) bool {
	return s.intersects(a.X, a.Y, b.X, b.Y)
}
