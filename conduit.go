// Package conduit computes polyline connector routes between points that
// avoid axis-aligned rectangular obstacles. It is the front door of the
// routing engine: callers hand it a bundle of obstacle bounds, optional
// mandatory bend points and the two endpoints, and get back the ordered
// list of integer points the connector should follow.
//
// For incremental use (moving obstacles between solves, routing several
// connectors that share corners) use the routing package directly.
package conduit

import (
	"errors"
	"fmt"

	"conduit/geometry"
	"conduit/routing"
)

// ErrInvalidInput reports malformed tabular input passed to SolveFor.
var ErrInvalidInput = errors.New("conduit: invalid input")

// SolveFor routes a single connector from (x1, y1) to (x2, y2) around the
// given obstacles, passing through the given bend points in order.
//
// Each obstacle is a 4-tuple (x, y, width, height); each bend point a
// 2-tuple (x, y). Tuples of any other arity fail with ErrInvalidInput.
// The result starts at (x1, y1) and ends at (x2, y2); an empty result
// means no route exists.
func SolveFor(obstacles [][]int, bendpoints [][]int, x1, y1, x2, y2 int) ([]geometry.Point, error) {
	router := routing.NewRouter()

	for i, o := range obstacles {
		if len(o) != 4 {
			return nil, fmt.Errorf("%w: obstacle %d has %d values, want 4 (x, y, width, height)",
				ErrInvalidInput, i, len(o))
		}
		router.AddObstacle(geometry.Rect{X: o[0], Y: o[1], Width: o[2], Height: o[3]})
	}

	path := routing.NewPath(geometry.Point{X: x1, Y: y1}, geometry.Point{X: x2, Y: y2})
	if len(bendpoints) > 0 {
		bends := make([]geometry.Point, len(bendpoints))
		for i, b := range bendpoints {
			if len(b) != 2 {
				return nil, fmt.Errorf("%w: bendpoint %d has %d values, want 2 (x, y)",
					ErrInvalidInput, i, len(b))
			}
			bends[i] = geometry.Point{X: b[0], Y: b[1]}
		}
		path.SetBendPoints(bends)
	}
	router.AddPath(path)

	if _, err := router.Solve(); err != nil {
		return nil, err
	}
	return path.Points(), nil
}
