package canvas

import "conduit/geometry"

// pathChars cycles per path so overlapping routes stay distinguishable.
var pathChars = []rune{'*', '#', '%', '@', '&'}

// Render draws a whole routed scene: obstacle outlines plus every path.
// The viewport is fitted to the content with a one-cell margin.
func Render(obstacles []geometry.Rect, paths [][]geometry.Point) string {
	bounds := contentBounds(obstacles, paths)
	if bounds.IsEmpty() {
		return ""
	}

	c, err := New(bounds.Width, bounds.Height)
	if err != nil {
		return ""
	}

	for _, o := range obstacles {
		c.DrawBox(o.Translated(-bounds.X, -bounds.Y))
	}
	for i, points := range paths {
		shifted := make([]geometry.Point, len(points))
		for j, p := range points {
			shifted[j] = p.Translated(-bounds.X, -bounds.Y)
		}
		c.DrawPath(shifted, pathChars[i%len(pathChars)])
	}
	return c.String()
}

// contentBounds returns the bounding rectangle of everything drawable,
// expanded by a one-cell margin.
func contentBounds(obstacles []geometry.Rect, paths [][]geometry.Point) geometry.Rect {
	var bounds geometry.Rect
	for _, o := range obstacles {
		bounds = bounds.Union(o)
	}
	for _, points := range paths {
		for _, p := range points {
			bounds = bounds.Union(geometry.Rect{X: p.X, Y: p.Y, Width: 1, Height: 1})
		}
	}
	if bounds.IsEmpty() {
		return bounds
	}
	return bounds.Expanded(1, 1)
}
