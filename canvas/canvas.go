// Package canvas renders obstacles and routed paths as text. It backs the
// CLI output, the interactive viewer and the visual tests.
package canvas

import (
	"errors"
	"strings"

	"conduit/geometry"
)

// ErrInvalidSize reports a canvas with non-positive dimensions.
var ErrInvalidSize = errors.New("canvas: invalid size")

// Canvas is a rune matrix with drawing primitives for boxes and polylines.
//
// Coordinate system: origin (0, 0) is top-left, X increases rightward and
// Y increases downward, all in character cells. It is not safe for
// concurrent writes.
type Canvas struct {
	matrix [][]rune
	width  int
	height int
}

// New creates a canvas of the given size, filled with spaces.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = make([]rune, width)
		for x := range matrix[y] {
			matrix[y][x] = ' '
		}
	}
	return &Canvas{matrix: matrix, width: width, height: height}, nil
}

// Size returns the width and height of the canvas.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the rune at p, or ' ' when p is out of bounds.
func (c *Canvas) Get(p geometry.Point) rune {
	if p.X < 0 || p.X >= c.width || p.Y < 0 || p.Y >= c.height {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set places a rune at p. Out-of-bounds positions are ignored.
func (c *Canvas) Set(p geometry.Point, char rune) {
	if p.X < 0 || p.X >= c.width || p.Y < 0 || p.Y >= c.height {
		return
	}
	c.matrix[p.Y][p.X] = char
}

// Clear resets the canvas to all spaces.
func (c *Canvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as newline-separated rows.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			sb.WriteRune(c.matrix[y][x])
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// DrawBox draws the outline of a box covering the cells of r.
func (c *Canvas) DrawBox(r geometry.Rect) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	x2, y2 := r.Right()-1, r.Bottom()-1
	if r.Width == 1 && r.Height == 1 {
		c.Set(geometry.Point{r.X, r.Y}, '□')
		return
	}
	for x := r.X + 1; x < x2; x++ {
		c.Set(geometry.Point{x, r.Y}, '─')
		c.Set(geometry.Point{x, y2}, '─')
	}
	for y := r.Y + 1; y < y2; y++ {
		c.Set(geometry.Point{r.X, y}, '│')
		c.Set(geometry.Point{x2, y}, '│')
	}
	c.Set(geometry.Point{r.X, r.Y}, '┌')
	c.Set(geometry.Point{x2, r.Y}, '┐')
	c.Set(geometry.Point{r.X, y2}, '└')
	c.Set(geometry.Point{x2, y2}, '┘')
}

// DrawLine draws a line between two points with Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 geometry.Point, char rune) {
	dx := geometry.Abs(p2.X - p1.X)
	dy := geometry.Abs(p2.Y - p1.Y)

	xInc, yInc := 1, 1
	if p1.X > p2.X {
		xInc = -1
	}
	if p1.Y > p2.Y {
		yInc = -1
	}

	x, y := p1.X, p1.Y
	if dx > dy {
		err := dx / 2
		for x != p2.X {
			c.Set(geometry.Point{x, y}, char)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			c.Set(geometry.Point{x, y}, char)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	c.Set(p2, char)
}

// DrawPath draws a polyline, marking the endpoints and each bend.
func (c *Canvas) DrawPath(points []geometry.Point, char rune) {
	if len(points) == 0 {
		return
	}
	for i := 0; i < len(points)-1; i++ {
		c.DrawLine(points[i], points[i+1], char)
	}
	for _, p := range points[1 : max(len(points)-1, 1)] {
		c.Set(p, '+')
	}
	c.Set(points[0], '●')
	c.Set(points[len(points)-1], '○')
}
