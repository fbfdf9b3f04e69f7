package routing

import (
	"errors"
	"fmt"

	"conduit/geometry"
)

const (
	// ovalConstant scales the straight-line distance into the pruning
	// threshold on a cold solve.
	ovalConstant = 1.13
	// epsilon loosens the threshold derived from the previous solution's
	// cost ratio on a resolve.
	epsilon = 1.04
)

// ErrVertexPosition reports an endpoint whose position relative to an
// obstacle matches no side or corner case. It indicates a bug or a
// pathological input, not a routing failure.
var ErrVertexPosition = errors.New("routing: vertex position matches no obstacle side")

// workItem is one candidate segment awaiting a visibility test, together
// with up to two obstacles the test must skip because the segment exists
// precisely to hug their corners.
type workItem struct {
	seg      *segment
	excludeA *obstacle
	excludeB *obstacle
}

// Path is a single routing request: a start and an end point, optionally
// mandatory bend points, and after a solve an ordered list of points from
// start to end. The router mutates paths through every solve phase; Points
// is the only surface a caller should read results from.
type Path struct {
	// Data is an arbitrary slot mapping the path back to some caller
	// object. The router never touches it.
	Data interface{}

	bendpoints        []geometry.Point
	excludedObstacles []*obstacle
	grownSegments     []*segment
	isDirty           bool
	isInverted        bool
	isMarked          bool
	points            []geometry.Point
	prevCostRatio     float64
	segments          []*segment
	stack             []workItem
	start, end        *vertex
	subPath           *Path
	threshold         float64
	visibleObstacles  *obstacleSet
	visibleVertices   *vertexSet
}

// NewPath creates a path from start to end. The path begins dirty and is
// solved on the next Router.Solve.
func NewPath(start, end geometry.Point) *Path {
	return newPath(newVertex(start, nil), newVertex(end, nil))
}

func newPath(start, end *vertex) *Path {
	return &Path{
		isDirty:          true,
		start:            start,
		end:              end,
		visibleObstacles: newObstacleSet(),
		visibleVertices:  newVertexSet(),
	}
}

// Points returns the solved route: an ordered list of points from the
// start to the end. An empty list means no route was found.
func (p *Path) Points() []geometry.Point {
	return p.points
}

// BendPoints returns the mandatory intermediate points, or nil.
func (p *Path) BendPoints() []geometry.Point {
	return p.bendpoints
}

// SetBendPoints replaces the mandatory intermediate points and dirties the
// path.
func (p *Path) SetBendPoints(points []geometry.Point) {
	p.bendpoints = points
	p.isDirty = true
}

// StartPoint returns the start of the path.
func (p *Path) StartPoint() geometry.Point {
	return p.start.Point
}

// SetStartPoint moves the start of the path, dirtying it if the point
// actually changed.
func (p *Path) SetStartPoint(pt geometry.Point) {
	if p.start != nil && pt == p.start.Point {
		return
	}
	p.start = newVertex(pt, nil)
	p.isDirty = true
}

// EndPoint returns the end of the path.
func (p *Path) EndPoint() geometry.Point {
	return p.end.Point
}

// SetEndPoint moves the end of the path, dirtying it if the point actually
// changed.
func (p *Path) SetEndPoint(pt geometry.Point) {
	if p.end != nil && pt == p.end.Point {
		return
	}
	p.end = newVertex(pt, nil)
	p.isDirty = true
}

// fullReset prepares the path for a fresh solve. The pruning threshold is
// seeded from the straight-line distance on a cold solve, or from the
// previous solution's cost ratio on a resolve.
func (p *Path) fullReset() {
	p.visibleVertices.clear()
	p.segments = p.segments[:0]
	if p.prevCostRatio == 0 {
		p.threshold = p.start.Distance(p.end.Point) * ovalConstant
	} else {
		p.threshold = p.prevCostRatio * epsilon * p.start.Distance(p.end.Point)
	}
	p.visibleObstacles.clear()
	p.resetPartial()
}

// resetPartial clears everything the phases after the visibility-graph
// step produce.
func (p *Path) resetPartial() {
	p.isMarked = false
	p.isInverted = false
	p.subPath = nil
	p.isDirty = false
	p.grownSegments = p.grownSegments[:0]
	p.points = p.points[:0]
}

// cleanup frees per-solve workspace not needed between solves.
func (p *Path) cleanup() {
	p.visibleVertices.clear()
}

// generateShortestPath builds the visibility graph against the given
// obstacles and runs the shortest-path search. It reports whether a route
// was found; the error covers only broken endpoint geometry.
func (p *Path) generateShortestPath(allObstacles []*obstacle) (bool, error) {
	if err := p.createVisibilityGraph(allObstacles); err != nil {
		return false, err
	}
	if p.visibleVertices.size() == 0 {
		return false, nil
	}
	return p.determineShortestPath(), nil
}

// createVisibilityGraph seeds the work stack with the direct start→end
// segment and drains it. Each blocked segment pulls its first blocking
// obstacle into the graph, which in turn queues the candidate segments
// around that obstacle.
func (p *Path) createVisibilityGraph(allObstacles []*obstacle) error {
	p.stack = p.stack[:0]
	p.push(workItem{seg: &segment{start: p.start, end: p.end}})
	for len(p.stack) > 0 {
		it := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if err := p.addSegment(it, allObstacles); err != nil {
			return err
		}
	}
	return nil
}

func (p *Path) push(it workItem) {
	p.stack = append(p.stack, it)
}

// outsideThreshold reports whether either end of seg falls outside the
// pruning oval: the ellipse with foci at the path endpoints whose total
// distance equals the threshold.
func (p *Path) outsideThreshold(seg *segment) bool {
	if p.threshold == 0 {
		return false
	}
	return seg.end.Distance(p.end.Point)+seg.end.Distance(p.start.Point) > p.threshold ||
		seg.start.Distance(p.end.Point)+seg.start.Distance(p.start.Point) > p.threshold
}

// addSegment tests one candidate segment against every obstacle. A clean
// segment links its two endpoints into the graph; a blocked one recruits
// the first blocking obstacle instead.
func (p *Path) addSegment(it workItem, allObstacles []*obstacle) error {
	seg := it.seg
	if p.outsideThreshold(seg) {
		return nil
	}
	for _, obs := range allObstacles {
		if obs == it.excludeA || obs == it.excludeB || obs.exclude {
			continue
		}
		if seg.intersects(obs.X, obs.Y, obs.Right()-1, obs.Bottom()-1) ||
			seg.intersects(obs.X, obs.Bottom()-1, obs.Right()-1, obs.Y) ||
			obs.containsProper(seg.start.Point) || obs.containsProper(seg.end.Point) {
			if !p.visibleObstacles.contains(obs) {
				return p.addObstacle(obs)
			}
			return nil
		}
	}
	p.linkVertices(seg)
	return nil
}

// addObstacle brings an obstacle into the visibility graph: candidate
// segments against every obstacle already visible, its own perimeter, and
// candidates to both path endpoints.
func (p *Path) addObstacle(newObs *obstacle) error {
	p.visibleObstacles.add(newObs)
	visible := append([]*obstacle(nil), p.visibleObstacles.items...)
	for _, currObs := range visible {
		if currObs != newObs {
			p.addSegmentsBetween(newObs, currObs)
		}
	}
	p.addPerimeterSegments(newObs)
	if err := p.addSegmentsForVertex(p.start, newObs); err != nil {
		return err
	}
	return p.addSegmentsForVertex(p.end, newObs)
}

// addPerimeterSegments queues the four edges of the obstacle.
func (p *Path) addPerimeterSegments(obs *obstacle) {
	p.push(workItem{seg: &segment{start: obs.topLeft, end: obs.topRight}, excludeA: obs})
	p.push(workItem{seg: &segment{start: obs.topRight, end: obs.bottomRight}, excludeA: obs})
	p.push(workItem{seg: &segment{start: obs.bottomRight, end: obs.bottomLeft}, excludeA: obs})
	p.push(workItem{seg: &segment{start: obs.bottomLeft, end: obs.topLeft}, excludeA: obs})
}

// addSegmentsBetween queues the candidate segments connecting two visible
// obstacles, chosen by their relative position so that candidates hug the
// outer hull of the pair.
func (p *Path) addSegmentsBetween(source, target *obstacle) {
	switch {
	case source.Intersects(target.Rect):
		p.addAllSegmentsBetween(source, target)
	case target.Bottom()-1 < source.Y:
		p.addSegmentsTargetAboveSource(source, target)
	case source.Bottom()-1 < target.Y:
		p.addSegmentsTargetAboveSource(target, source)
	case target.Right()-1 < source.X:
		p.addSegmentsTargetBesideSource(source, target)
	default:
		p.addSegmentsTargetBesideSource(target, source)
	}
}

// addAllSegmentsBetween handles the intersecting-obstacles case: all four
// corresponding-corner segments, plus both diagonals on any exactly
// aligned side.
func (p *Path) addAllSegmentsBetween(source, target *obstacle) {
	p.addConnectingSegment(&segment{start: source.bottomLeft, end: target.bottomLeft}, source, target, false, false)
	p.addConnectingSegment(&segment{start: source.bottomRight, end: target.bottomRight}, source, target, true, true)
	p.addConnectingSegment(&segment{start: source.topLeft, end: target.topLeft}, source, target, true, true)
	p.addConnectingSegment(&segment{start: source.topRight, end: target.topRight}, source, target, false, false)

	if source.Bottom() == target.Bottom() {
		p.addConnectingSegment(&segment{start: source.bottomLeft, end: target.bottomRight}, source, target, false, true)
		p.addConnectingSegment(&segment{start: source.bottomRight, end: target.bottomLeft}, source, target, true, false)
	}
	if source.Y == target.Y {
		p.addConnectingSegment(&segment{start: source.topLeft, end: target.topRight}, source, target, true, false)
		p.addConnectingSegment(&segment{start: source.topRight, end: target.topLeft}, source, target, false, true)
	}
	if source.X == target.X {
		p.addConnectingSegment(&segment{start: source.bottomLeft, end: target.topLeft}, source, target, false, true)
		p.addConnectingSegment(&segment{start: source.topLeft, end: target.bottomLeft}, source, target, true, false)
	}
	if source.Right() == target.Right() {
		p.addConnectingSegment(&segment{start: source.bottomRight, end: target.topRight}, source, target, true, false)
		p.addConnectingSegment(&segment{start: source.topRight, end: target.bottomRight}, source, target, false, true)
	}
}

// addConnectingSegment queues a segment between two intersecting
// obstacles, unless it leaves the pruning oval, starts or ends inside the
// other obstacle, or crosses the diagonal picked by the checkTopRight
// flags.
func (p *Path) addConnectingSegment(seg *segment, o1, o2 *obstacle, checkTopRight1, checkTopRight2 bool) {
	if p.outsideThreshold(seg) {
		return
	}
	if o2.containsProper(seg.start.Point) || o1.containsProper(seg.end.Point) {
		return
	}
	if checkTopRight1 && seg.intersects(o1.X, o1.Bottom()-1, o1.Right()-1, o1.Y) {
		return
	}
	if checkTopRight2 && seg.intersects(o2.X, o2.Bottom()-1, o2.Right()-1, o2.Y) {
		return
	}
	if !checkTopRight1 && seg.intersects(o1.X, o1.Y, o1.Right()-1, o1.Bottom()-1) {
		return
	}
	if !checkTopRight2 && seg.intersects(o2.X, o2.Y, o2.Right()-1, o2.Bottom()-1) {
		return
	}
	p.push(workItem{seg: seg, excludeA: o1, excludeB: o2})
}

// addSegmentsTargetAboveSource queues the outer-hull candidates for a
// target strictly above the source.
func (p *Path) addSegmentsTargetAboveSource(source, target *obstacle) {
	var seg, seg2 *segment
	if target.X > source.X {
		seg = &segment{start: source.topLeft, end: target.topLeft}
		if target.X < source.Right()-1 {
			seg2 = &segment{start: source.topRight, end: target.bottomLeft}
		} else {
			seg2 = &segment{start: source.bottomRight, end: target.topLeft}
		}
	} else if source.X == target.X {
		seg = &segment{start: source.topLeft, end: target.bottomLeft}
		seg2 = &segment{start: source.topRight, end: target.bottomLeft}
	} else {
		seg = &segment{start: source.bottomLeft, end: target.bottomLeft}
		seg2 = &segment{start: source.topRight, end: target.bottomLeft}
	}
	p.push(workItem{seg: seg, excludeA: source, excludeB: target})
	p.push(workItem{seg: seg2, excludeA: source, excludeB: target})

	if target.Right() < source.Right() {
		seg = &segment{start: source.topRight, end: target.topRight}
		if target.Right()-1 > source.X {
			seg2 = &segment{start: source.topLeft, end: target.bottomRight}
		} else {
			seg2 = &segment{start: source.bottomLeft, end: target.topRight}
		}
	} else if source.Right() == target.Right() {
		seg = &segment{start: source.topRight, end: target.bottomRight}
		seg2 = &segment{start: source.topLeft, end: target.bottomRight}
	} else {
		seg = &segment{start: source.bottomRight, end: target.bottomRight}
		seg2 = &segment{start: source.topLeft, end: target.bottomRight}
	}
	p.push(workItem{seg: seg, excludeA: source, excludeB: target})
	p.push(workItem{seg: seg2, excludeA: source, excludeB: target})
}

// addSegmentsTargetBesideSource queues the outer-hull candidates for a
// target strictly left of the source.
func (p *Path) addSegmentsTargetBesideSource(source, target *obstacle) {
	var seg, seg2 *segment
	if target.Y > source.Y {
		seg = &segment{start: source.topLeft, end: target.topLeft}
		if target.Y < source.Bottom()-1 {
			seg2 = &segment{start: source.bottomLeft, end: target.topRight}
		} else {
			seg2 = &segment{start: source.bottomRight, end: target.topLeft}
		}
	} else if source.Y == target.Y {
		// degenerate case
		seg = &segment{start: source.topLeft, end: target.topRight}
		seg2 = &segment{start: source.bottomLeft, end: target.topRight}
	} else {
		seg = &segment{start: source.topRight, end: target.topRight}
		seg2 = &segment{start: source.bottomLeft, end: target.topRight}
	}
	p.push(workItem{seg: seg, excludeA: source, excludeB: target})
	p.push(workItem{seg: seg2, excludeA: source, excludeB: target})

	if target.Bottom() < source.Bottom() {
		seg = &segment{start: source.bottomLeft, end: target.bottomLeft}
		if target.Bottom()-1 > source.Y {
			seg2 = &segment{start: source.topLeft, end: target.bottomRight}
		} else {
			seg2 = &segment{start: source.topRight, end: target.bottomLeft}
		}
	} else if source.Bottom() == target.Bottom() {
		seg = &segment{start: source.bottomLeft, end: target.bottomRight}
		seg2 = &segment{start: source.topLeft, end: target.bottomRight}
	} else {
		seg = &segment{start: source.bottomRight, end: target.bottomRight}
		seg2 = &segment{start: source.topLeft, end: target.bottomRight}
	}
	p.push(workItem{seg: seg, excludeA: source, excludeB: target})
	p.push(workItem{seg: seg2, excludeA: source, excludeB: target})
}

// addSegmentsForVertex queues the candidate segments from a path endpoint
// to the two corners of the obstacle visible from it, switching on where
// the endpoint sits relative to the obstacle.
func (p *Path) addSegmentsForVertex(vtx *vertex, obs *obstacle) error {
	var seg, seg2 *segment

	switch obs.Rect.Position(vtx.Point) {
	case geometry.SouthWest, geometry.NorthEast:
		seg = &segment{start: vtx, end: obs.topLeft}
		seg2 = &segment{start: vtx, end: obs.bottomRight}
	case geometry.SouthEast, geometry.NorthWest:
		seg = &segment{start: vtx, end: obs.topRight}
		seg2 = &segment{start: vtx, end: obs.bottomLeft}
	case geometry.North:
		seg = &segment{start: vtx, end: obs.topLeft}
		seg2 = &segment{start: vtx, end: obs.topRight}
	case geometry.East:
		seg = &segment{start: vtx, end: obs.bottomRight}
		seg2 = &segment{start: vtx, end: obs.topRight}
	case geometry.South:
		seg = &segment{start: vtx, end: obs.bottomRight}
		seg2 = &segment{start: vtx, end: obs.bottomLeft}
	case geometry.West:
		seg = &segment{start: vtx, end: obs.topLeft}
		seg2 = &segment{start: vtx, end: obs.bottomLeft}
	default:
		// The endpoint is inside the rectangle, which can only mean it
		// sits on a boundary edge (proper containment excludes the
		// obstacle from testing altogether).
		switch {
		case vtx.X == obs.X:
			seg = &segment{start: vtx, end: obs.topLeft}
			seg2 = &segment{start: vtx, end: obs.bottomLeft}
		case vtx.Y == obs.Y:
			seg = &segment{start: vtx, end: obs.topLeft}
			seg2 = &segment{start: vtx, end: obs.topRight}
		case vtx.Y == obs.Bottom()-1:
			seg = &segment{start: vtx, end: obs.bottomLeft}
			seg2 = &segment{start: vtx, end: obs.bottomRight}
		case vtx.X == obs.Right()-1:
			seg = &segment{start: vtx, end: obs.topRight}
			seg2 = &segment{start: vtx, end: obs.bottomRight}
		default:
			return fmt.Errorf("%w: vertex (%d, %d) against obstacle at (%d, %d, %d, %d)",
				ErrVertexPosition, vtx.X, vtx.Y, obs.X, obs.Y, obs.Width, obs.Height)
		}
	}

	p.push(workItem{seg: seg, excludeA: obs})
	p.push(workItem{seg: seg2, excludeA: obs})
	return nil
}

// linkVertices records a clean segment as a symmetric adjacency in the
// visibility graph.
func (p *Path) linkVertices(seg *segment) {
	linked := false
	for _, n := range seg.start.neighbors {
		if n == seg.end {
			linked = true
			break
		}
	}
	if !linked {
		seg.start.neighbors = append(seg.start.neighbors, seg.end)
		seg.end.neighbors = append(seg.end.neighbors, seg.start)
	}
	p.visibleVertices.add(seg.start)
	p.visibleVertices.add(seg.end)
}

// determineShortestPath labels the visibility graph and walks the
// predecessor chain from the end back to the start, recording the segment
// sequence in forward order. Returns false when no route exists.
func (p *Path) determineShortestPath() bool {
	if !p.labelGraph() {
		return false
	}
	vtx := p.end
	p.prevCostRatio = p.end.cost / p.start.Distance(p.end.Point)

	for vtx.Point != p.start.Point {
		next := vtx.label
		if next == nil {
			return false
		}
		p.segments = append(p.segments, &segment{start: next, end: vtx})
		vtx = next
	}

	for i, j := 0, len(p.segments)-1; i < j; i, j = i+1, j-1 {
		p.segments[i], p.segments[j] = p.segments[j], p.segments[i]
	}
	return true
}

// labelGraph runs the shortest-path search over the visible vertices:
// relax the current vertex's neighbors, then pick the cheapest labeled
// non-permanent vertex by linear scan, until every visible vertex is
// permanent. Returns false when the graph has a gap.
func (p *Path) labelGraph() bool {
	numPermanent := 1
	vtx := p.start
	vtx.isPermanent = true
	for numPermanent != p.visibleVertices.size() {
		if vtx.neighbors == nil {
			return false
		}
		for _, n := range vtx.neighbors {
			if n.isPermanent {
				continue
			}
			newCost := vtx.cost + vtx.Distance(n.Point)
			if n.label == nil || n.cost > newCost {
				n.label = vtx
				n.cost = newCost
			}
		}
		smallestCost := 0.0
		for _, t := range p.visibleVertices.items {
			if !t.isPermanent && t.label != nil &&
				(t.cost < smallestCost || smallestCost == 0) {
				smallestCost = t.cost
				vtx = t
			}
		}
		vtx.isPermanent = true
		numPermanent++
	}
	return true
}

// subPathFor splits the path at the given segment. The split segment stays
// shared: it ends the truncated parent and begins the new subpath.
func (p *Path) subPathFor(cur *segment) *Path {
	idx := indexOfSegment(p.grownSegments, cur)

	newPath := newPath(cur.start, p.end)
	newPath.grownSegments = append([]*segment(nil), p.grownSegments[idx:]...)

	p.grownSegments = append([]*segment(nil), p.grownSegments[:idx+1]...)
	p.end = cur.end

	p.subPath = newPath
	return newPath
}

// invertPriorVertices flips the labels of every vertex before the given
// segment. Called when the path discovers mid-walk that it is inverted and
// needs to rectify the labels it assigned before it knew.
func (p *Path) invertPriorVertices(cur *segment) {
	stop := indexOfSegment(p.grownSegments, cur)
	for i := 0; i < stop; i++ {
		vtx := p.grownSegments[i].end
		if vtx.vtype == typeInnie {
			vtx.vtype = typeOutie
		} else {
			vtx.vtype = typeInnie
		}
	}
}

// reconnectSubPaths merges the chain of subpaths split off this path back
// into it, deepest first.
func (p *Path) reconnectSubPaths() {
	var chain []*Path
	for sp := p.subPath; sp != nil; sp = sp.subPath {
		chain = append(chain, sp)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		parent := p
		if i > 0 {
			parent = chain[i-1]
		}
		parent.mergeSubPath(chain[i])
	}
}

// mergeSubPath splices sub back onto the end of parent. The shared split
// segment appears in both; the parent keeps its copy, and the duplicated
// junction points are dropped from the merged point list.
func (parent *Path) mergeSubPath(sub *Path) {
	changed := sub.grownSegments[0]
	sub.grownSegments = sub.grownSegments[1:]
	old := parent.grownSegments[len(parent.grownSegments)-1]
	old.end = changed.end
	parent.grownSegments = append(parent.grownSegments, sub.grownSegments...)

	parent.points = parent.points[:len(parent.points)-1]
	parent.points = append(parent.points, sub.points[1:]...)

	parent.visibleObstacles.addAll(sub.visibleObstacles)

	parent.end = sub.end
	parent.subPath = nil
}

// refreshExcludedObstacles marks every obstacle that properly contains one
// of this path's endpoints as excluded, so it cannot block the path that
// has to escape it. An endpoint sitting exactly on a boundary or corner
// leaves the obstacle active.
func (p *Path) refreshExcludedObstacles(allObstacles []*obstacle) {
	p.excludedObstacles = p.excludedObstacles[:0]
	for _, o := range allObstacles {
		o.exclude = false
		if o.containsProper(p.start.Point) || o.containsProper(p.end.Point) {
			o.exclude = true
			p.excludedObstacles = append(p.excludedObstacles, o)
		}
	}
}

// isObstacleVisible reports whether the obstacle took part in this path's
// visibility graph.
func (p *Path) isObstacleVisible(obs *obstacle) bool {
	return p.visibleObstacles.contains(obs)
}

// testAndSet dirties a clean path whose current point list touches the
// given obstacle, testing each leg against the obstacle's diagonals.
func (p *Path) testAndSet(obs *obstacle) bool {
	if p.isDirty {
		return false
	}
	for _, e := range p.excludedObstacles {
		if e == obs {
			return false
		}
	}

	diag1 := &segment{start: obs.topLeft, end: obs.bottomRight}
	diag2 := &segment{start: obs.topRight, end: obs.bottomLeft}

	for s := 0; s < len(p.points)-1; s++ {
		cur, next := p.points[s], p.points[s+1]
		if diag1.intersectsPoints(cur, next) || diag2.intersectsPoints(cur, next) ||
			obs.Contains(cur) || obs.Contains(next) {
			p.isDirty = true
			return true
		}
	}
	return false
}

func indexOfSegment(segs []*segment, s *segment) int {
	for i, t := range segs {
		if t == s {
			return i
		}
	}
	return -1
}
