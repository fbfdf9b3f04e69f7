package geometry

// relativeCCW returns -1, 0 or 1 depending on which side of the directed
// line (x1,y1)→(x2,y2) the point (px,py) lies on. Collinear points return 0
// only when they fall within the segment; a collinear point beyond either
// endpoint reports the side it would rotate through, so that overlap tests
// on collinear segments come out right.
func relativeCCW(x1, y1, x2, y2, px, py int) int {
	x2 -= x1
	y2 -= y1
	px -= x1
	py -= y1
	ccw := int64(px)*int64(y2) - int64(py)*int64(x2)
	if ccw == 0 {
		ccw = int64(px)*int64(x2) + int64(py)*int64(y2)
		if ccw > 0 {
			px -= x2
			py -= y2
			ccw = int64(px)*int64(x2) + int64(py)*int64(y2)
			if ccw < 0 {
				ccw = 0
			}
		}
	}
	switch {
	case ccw < 0:
		return -1
	case ccw > 0:
		return 1
	default:
		return 0
	}
}

// SegmentsIntersect reports whether the closed segments (x1,y1)-(x2,y2) and
// (x3,y3)-(x4,y4) have at least one point in common. Touching endpoints
// count as an intersection.
func SegmentsIntersect(x1, y1, x2, y2, x3, y3, x4, y4 int) bool {
	return relativeCCW(x1, y1, x2, y2, x3, y3)*relativeCCW(x1, y1, x2, y2, x4, y4) <= 0 &&
		relativeCCW(x3, y3, x4, y4, x1, y1)*relativeCCW(x3, y3, x4, y4, x2, y2) <= 0
}
