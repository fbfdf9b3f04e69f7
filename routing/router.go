// Package routing bends a collection of paths around rectangular
// obstacles. A Router maintains a list of paths and obstacles; updates can
// be made to either, and then an incremental Solve finds the shortest
// non-crossing route for each dirty path and offsets routes that bend
// around the same obstacle corner so they fan out instead of overlapping.
//
// The worst-case cost of a solve is p * s * n^2, where p is the number of
// paths, n the number of obstacles, and s the average number of segments
// in a final route.
package routing

import "conduit/geometry"

// numGrowPasses is how many times obstacles are grown and retested for
// intersections. A tradeoff between performance and output quality.
const numGrowPasses = 2

// Router owns all obstacles and paths and drives the multi-pass solve.
// It is not safe for concurrent use; between solves the caller may add and
// remove obstacles and paths, which dirties the affected paths for the
// next Solve.
type Router struct {
	spacing                  int
	growPassChangedObstacles bool
	orderedPaths             []*Path
	pathsToChildPaths        map[*Path][]*Path

	stack    []*Path
	subPaths []*Path

	userObstacles []*obstacle
	userPaths     []*Path
	workingPaths  []*Path
}

// NewRouter creates an empty router with the default spacing.
func NewRouter() *Router {
	return &Router{
		spacing:           4,
		pathsToChildPaths: make(map[*Path][]*Path),
	}
}

// Spacing returns the minimum separation kept between paths and between a
// path and an obstacle it bends around.
func (r *Router) Spacing() int {
	return r.spacing
}

// SetSpacing sets the default spacing between paths. When the available
// room cannot satisfy it, paths are squeezed together uniformly. The
// default is 4.
func (r *Router) SetSpacing(spacing int) {
	r.spacing = spacing
}

// AddObstacle adds an obstacle with the given bounds. It reports whether
// the new obstacle dirtied one or more existing paths.
func (r *Router) AddObstacle(rect geometry.Rect) bool {
	obs := newObstacle(rect, r)
	r.userObstacles = append(r.userObstacles, obs)
	result := false
	for _, path := range r.workingPaths {
		if path.testAndSet(obs) {
			result = true
		}
	}
	return result
}

// RemoveObstacle removes the obstacle whose bounds equal rect, dirtying
// every path that bent at one of its corners or saw it in its visibility
// graph. When several obstacles share the same bounds the first added is
// removed; an unknown rectangle is a no-op returning false.
func (r *Router) RemoveObstacle(rect geometry.Rect) bool {
	index := -1
	var obs *obstacle
	for i, o := range r.userObstacles {
		if o.Rect == rect {
			index = i
			obs = o
			break
		}
	}
	if index == -1 {
		return false
	}
	r.userObstacles = append(r.userObstacles[:index], r.userObstacles[index+1:]...)

	result := r.dirtyPathsOn(obs.bottomLeft)
	result = r.dirtyPathsOn(obs.topLeft) || result
	result = r.dirtyPathsOn(obs.bottomRight) || result
	result = r.dirtyPathsOn(obs.topRight) || result

	for _, path := range r.workingPaths {
		if path.isDirty {
			continue
		}
		if path.isObstacleVisible(obs) {
			path.isDirty = true
			result = true
		}
	}
	return result
}

// UpdateObstacle moves an obstacle from its old bounds to new ones. It
// reports whether the change made any current result stale.
func (r *Router) UpdateObstacle(oldBounds, newBounds geometry.Rect) bool {
	result := r.RemoveObstacle(oldBounds)
	return r.AddObstacle(newBounds) || result
}

// AddPath adds a path to the routing. The path starts dirty and is routed
// on the next Solve.
func (r *Router) AddPath(path *Path) {
	r.userPaths = append(r.userPaths, path)
	r.workingPaths = append(r.workingPaths, path)
}

// RemovePath removes a path, along with any child paths generated for its
// bend points.
func (r *Router) RemovePath(path *Path) {
	r.userPaths = removePathFrom(r.userPaths, path)
	children := r.pathsToChildPaths[path]
	if children == nil {
		r.workingPaths = removePathFrom(r.workingPaths, path)
	} else {
		for _, child := range children {
			r.workingPaths = removePathFrom(r.workingPaths, child)
		}
		delete(r.pathsToChildPaths, path)
	}
}

// dirtyPathsOn dirties every path bending at the given vertex.
func (r *Router) dirtyPathsOn(vtx *vertex) bool {
	if len(vtx.paths) == 0 {
		return false
	}
	for _, path := range vtx.paths {
		path.isDirty = true
	}
	return true
}

// Solve updates every path's point list to the current solution and
// returns the user-added paths. Paths for which no route exists keep an
// empty point list; the error covers only internal invariant failures in
// endpoint geometry.
func (r *Router) Solve() ([]*Path, error) {
	if _, err := r.solveDirtyPaths(); err != nil {
		return nil, err
	}

	r.countVertices()
	r.checkVertexIntersections()
	r.growObstacles()

	r.subPaths = nil
	r.stack = nil
	r.labelPaths()
	r.stack = nil

	r.orderedPaths = nil
	r.orderPaths()
	r.bendPaths()

	r.recombineSubpaths()
	r.orderedPaths = nil

	r.recombineChildrenPaths()
	r.cleanup()

	return append([]*Path(nil), r.userPaths...), nil
}

// solveDirtyPaths regenerates bendpoint children where needed, then builds
// a fresh route for every dirty working path. A path whose search fails or
// whose route costs more than the pruning threshold is retried once with
// the threshold disabled.
func (r *Router) solveDirtyPaths() (int, error) {
	numSolved := 0

	for _, path := range r.userPaths {
		if !path.isDirty {
			continue
		}
		children := r.pathsToChildPaths[path]
		prevCount, newCount := 1, 1
		if children != nil {
			prevCount = len(children)
		}
		if path.bendpoints != nil {
			newCount = len(path.bendpoints) + 1
		}
		if prevCount != newCount {
			children = r.regenerateChildPaths(path, children, prevCount, newCount)
		}
		r.refreshChildrenEndpoints(path, children)
	}

	for _, path := range r.workingPaths {
		path.refreshExcludedObstacles(r.userObstacles)
		if !path.isDirty {
			path.resetPartial()
			continue
		}

		numSolved++
		path.fullReset()

		found, err := path.generateShortestPath(r.userObstacles)
		if err != nil {
			return numSolved, err
		}
		if !found || path.end.cost > path.threshold {
			// no route, or the route found was too long: retry without
			// pruning
			r.resetVertices()
			path.fullReset()
			path.threshold = 0
			if _, err := path.generateShortestPath(r.userObstacles); err != nil {
				return numSolved, err
			}
		}

		r.resetVertices()
	}

	r.resetObstacleExclusions()

	if numSolved == 0 {
		r.resetVertices()
	}
	return numSolved, nil
}

// regenerateChildPaths resyncs a parent path's children with its bendpoint
// count: one child per leg between consecutive control points.
func (r *Router) regenerateChildPaths(path *Path, children []*Path, currentSize, newSize int) []*Path {
	if currentSize == 1 {
		// was simple, becomes compound
		r.workingPaths = removePathFrom(r.workingPaths, path)
		currentSize = 0
		children = nil
	} else if newSize == 1 {
		// was compound, becomes simple again
		for _, child := range children {
			r.workingPaths = removePathFrom(r.workingPaths, child)
		}
		r.workingPaths = append(r.workingPaths, path)
		delete(r.pathsToChildPaths, path)
		return nil
	}

	for currentSize < newSize {
		child := newPath(nil, nil)
		r.workingPaths = append(r.workingPaths, child)
		children = append(children, child)
		currentSize++
	}
	for currentSize > newSize {
		child := children[len(children)-1]
		children = children[:len(children)-1]
		r.workingPaths = removePathFrom(r.workingPaths, child)
		currentSize--
	}

	r.pathsToChildPaths[path] = children
	return children
}

// refreshChildrenEndpoints resets each child's endpoints to consecutive
// control points: start, bend0, bend1, ..., end.
func (r *Router) refreshChildrenEndpoints(path *Path, children []*Path) {
	previous := path.StartPoint()
	for i, child := range children {
		var next geometry.Point
		if i < len(path.bendpoints) {
			next = path.bendpoints[i]
		} else {
			next = path.EndPoint()
		}
		child.SetStartPoint(previous)
		child.SetEndPoint(next)
		previous = next
	}
}

// countVertices increments the total count of every intermediate vertex
// along every working path.
func (r *Router) countVertices() {
	for _, path := range r.workingPaths {
		for v := 0; v < len(path.segments)-1; v++ {
			path.segments[v].end.totalCount++
		}
	}
}

// checkVertexIntersections checks every intermediate vertex along every
// path for nearby obstacles that should shrink its offset.
func (r *Router) checkVertexIntersections() {
	for _, path := range r.workingPaths {
		for s := 0; s < len(path.segments)-1; s++ {
			r.checkVertexForIntersections(path.segments[s].end)
		}
	}
}

// checkVertexForIntersections scans the square region the fanned-out paths
// around vtx will occupy. If a foreign obstacle intrudes, the vertex's
// offset shrinks so the fan stays short of it.
func (r *Router) checkVertexForIntersections(vtx *vertex) {
	if vtx.nearestObstacle != 0 || vtx.nearestObstacleChecked {
		return
	}

	sideLength := 2*(vtx.totalCount*r.Spacing()) + 1

	var x, y int
	if vtx.position&geometry.North != 0 {
		y = vtx.Y - sideLength
	} else {
		y = vtx.Y
	}
	if vtx.position&geometry.East != 0 {
		x = vtx.X
	} else {
		x = vtx.X - sideLength
	}
	region := geometry.Rect{X: x, Y: y, Width: sideLength, Height: sideLength}

	for _, obs := range r.userObstacles {
		if obs == vtx.obs || !region.Intersects(obs.Rect) {
			continue
		}
		pos := obs.Rect.Position(vtx.Point)
		if pos == geometry.None {
			continue
		}

		var xDist, yDist int
		if pos&geometry.North != 0 {
			yDist = obs.Y - vtx.Y
		} else {
			yDist = vtx.Y - obs.Bottom() + 1
		}
		if pos&geometry.East != 0 {
			xDist = vtx.X - obs.Right() + 1
		} else {
			xDist = obs.X - vtx.X
		}

		if dist := geometry.Max(xDist, yDist); dist < vtx.nearestObstacle || vtx.nearestObstacle == 0 {
			vtx.nearestObstacle = dist
			vtx.updateOffset()
		}
	}

	vtx.nearestObstacleChecked = true
}

// growObstacles performs up to numGrowPasses passes of growing obstacle
// corners and testing path segments against them. A pass that inserted
// nothing short-circuits the rest.
func (r *Router) growObstacles() {
	r.growPassChangedObstacles = false
	for i := 0; i < numGrowPasses; i++ {
		if i == 0 || r.growPassChangedObstacles {
			r.growObstaclesPass()
		}
	}
}

// growObstaclesPass inflates every obstacle's corners to the furthest
// position the fanned-out paths will reach, then splits any path segment
// that now runs through a grown corner it did not originate from.
func (r *Router) growObstaclesPass() {
	for _, obs := range r.userObstacles {
		obs.growVertices()
	}

	for _, path := range r.workingPaths {
		for _, e := range path.excludedObstacles {
			e.exclude = true
		}

		if len(path.grownSegments) == 0 {
			for _, seg := range path.segments {
				r.testOffsetSegmentForIntersections(seg, -1, path)
			}
		} else {
			counter := 0
			current := append([]*segment(nil), path.grownSegments...)
			for s, seg := range current {
				counter += r.testOffsetSegmentForIntersections(seg, s+counter, path)
			}
		}

		for _, e := range path.excludedObstacles {
			e.exclude = false
		}
	}

	for _, obs := range r.userObstacles {
		obs.shrinkVertices()
	}
}

// testOffsetSegmentForIntersections tests one segment against the grown
// corners of every obstacle. When the segment crosses a grown diagonal,
// the nearer corner on that diagonal is inserted as a new bend, splitting
// the segment in two, unless the regions the paths travel through at that
// corner and at the segment's own endpoints overlap (which would hook the
// path back on itself). Returns 1 if a split was inserted.
func (r *Router) testOffsetSegmentForIntersections(seg *segment, index int, path *Path) int {
	for _, obs := range r.userObstacles {
		if seg.end.obs == obs || seg.start.obs == obs || obs.exclude {
			continue
		}

		var vtx *vertex
		offset := r.Spacing()
		if seg.slopeSign() < 0 {
			if seg.intersects(obs.topLeft.X-offset, obs.topLeft.Y-offset,
				obs.bottomRight.X+offset, obs.bottomRight.Y+offset) {
				vtx = nearestVertex(obs.topLeft, obs.bottomRight, seg)
			} else if seg.intersects(obs.bottomLeft.X-offset, obs.bottomLeft.Y+offset,
				obs.topRight.X+offset, obs.topRight.Y-offset) {
				vtx = nearestVertex(obs.bottomLeft, obs.topRight, seg)
			}
		} else {
			if seg.intersects(obs.bottomLeft.X-offset, obs.bottomLeft.Y+offset,
				obs.topRight.X+offset, obs.topRight.Y-offset) {
				vtx = nearestVertex(obs.bottomLeft, obs.topRight, seg)
			} else if seg.intersects(obs.topLeft.X-offset, obs.topLeft.Y-offset,
				obs.bottomRight.X+offset, obs.bottomRight.Y+offset) {
				vtx = nearestVertex(obs.topLeft, obs.bottomRight, seg)
			}
		}
		if vtx == nil {
			continue
		}

		vRect := vtx.deformedRectangle(offset)
		if seg.end.obs != nil && vRect.Intersects(seg.end.deformedRectangle(offset)) {
			continue
		}
		if seg.start.obs != nil && vRect.Intersects(seg.start.deformedRectangle(offset)) {
			continue
		}

		newSegmentStart := &segment{start: seg.start, end: vtx}
		newSegmentEnd := &segment{start: vtx, end: seg.end}

		vtx.totalCount++
		vtx.nearestObstacleChecked = false

		vtx.shrink()
		r.checkVertexForIntersections(vtx)
		vtx.grow()

		if vtx.nearestObstacle != 0 {
			vtx.updateOffset()
		}

		r.growPassChangedObstacles = true

		if index != -1 {
			path.grownSegments = removeSegment(path.grownSegments, seg)
			path.grownSegments = insertSegments(path.grownSegments, index, newSegmentStart, newSegmentEnd)
		} else {
			path.grownSegments = append(path.grownSegments, newSegmentStart, newSegmentEnd)
		}
		return 1
	}

	if index == -1 {
		path.grownSegments = append(path.grownSegments, seg)
	}
	return 0
}

// nearestVertex returns whichever of v1 and v2 is closest to the segment.
func nearestVertex(v1, v2 *vertex, seg *segment) *vertex {
	d1 := seg.start.Distance(v1.Point) + seg.end.Distance(v1.Point)
	d2 := seg.start.Distance(v2.Point) + seg.end.Distance(v2.Point)
	if d1 > d2 {
		return v2
	}
	return v1
}

// labelPaths labels every working path's vertices as innies or outies,
// depth-first so that paths sharing a corner are labeled consistently.
func (r *Router) labelPaths() {
	for _, path := range r.workingPaths {
		r.stack = append(r.stack, path)
	}

	for len(r.stack) > 0 {
		path := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		if !path.isMarked {
			path.isMarked = true
			r.labelPath(path)
		}
	}

	// unmark so the marker can be reused by ordering
	for _, path := range r.workingPaths {
		path.isMarked = false
	}
}

// labelPath walks one path's intermediate vertices, labeling each from the
// cross product of the incoming segment and the segment toward the owning
// obstacle's center. A disagreement with already-labeled state inverts the
// path, unless the path is already inverted or an earlier labeled vertex
// agreed; then the path splits into a subpath instead.
func (r *Router) labelPath(path *Path) {
	agree := false
	for v := 0; v < len(path.grownSegments)-1; v++ {
		seg := path.grownSegments[v]
		nextSegment := path.grownSegments[v+1]
		vtx := seg.end
		cross := seg.crossProduct(&segment{start: vtx, end: vtx.obs.center})

		switch {
		case vtx.vtype == typeNotSet:
			labelVertex(seg, cross, path)
		case !path.isInverted &&
			((cross > 0 && vtx.vtype == typeOutie) || (cross < 0 && vtx.vtype == typeInnie)):
			if agree {
				// split detected
				r.stack = append(r.stack, r.subpathForSplit(path, seg))
				return
			}
			path.isInverted = true
			path.invertPriorVertices(seg)
		case path.isInverted &&
			((cross < 0 && vtx.vtype == typeOutie) || (cross > 0 && vtx.vtype == typeInnie)):
			// split detected
			r.stack = append(r.stack, r.subpathForSplit(path, seg))
			return
		default:
			agree = true
		}

		for _, nextPath := range vtx.paths {
			if !nextPath.isMarked {
				nextPath.isMarked = true
				r.stack = append(r.stack, nextPath)
			}
		}

		vtx.addPath(path, seg, nextSegment)
	}
}

// labelVertex labels the vertex at the end of the segment from the cross
// product sign, honoring the path's inversion. A zero cross product
// inherits the preceding vertex's label, defaulting to innie.
func labelVertex(seg *segment, crossProduct int64, path *Path) {
	switch {
	case crossProduct > 0:
		if path.isInverted {
			seg.end.vtype = typeOutie
		} else {
			seg.end.vtype = typeInnie
		}
	case crossProduct < 0:
		if path.isInverted {
			seg.end.vtype = typeInnie
		} else {
			seg.end.vtype = typeOutie
		}
	case seg.start.vtype != typeNotSet:
		seg.end.vtype = seg.start.vtype
	default:
		seg.end.vtype = typeInnie
	}
}

// subpathForSplit splits path at the given segment and registers the new
// subpath for a fresh labeling pass and later recombination.
func (r *Router) subpathForSplit(path *Path, seg *segment) *Path {
	newPath := path.subPathFor(seg)
	r.workingPaths = append(r.workingPaths, newPath)
	r.subPaths = append(r.subPaths, newPath)
	return newPath
}

// orderPaths orders all paths so that, at any shared vertex, paths appear
// by bend angle, outermost first.
func (r *Router) orderPaths() {
	for _, path := range r.workingPaths {
		r.orderPath(path)
	}
}

// orderPath recursively visits, at each vertex of the path, every sharing
// path with a smaller bend angle before appending this path to the order.
func (r *Router) orderPath(path *Path) {
	if path.isMarked {
		return
	}
	path.isMarked = true
	for v := 0; v < len(path.grownSegments)-1; v++ {
		vtx := path.grownSegments[v].end
		thisAngle := vtx.cachedCosines[path]
		if path.isInverted {
			thisAngle = -thisAngle
		}

		for _, vPath := range vtx.paths {
			if vPath.isMarked {
				continue
			}
			otherAngle := vtx.cachedCosines[vPath]
			if vPath.isInverted {
				otherAngle = -otherAngle
			}
			if otherAngle < thisAngle {
				r.orderPath(vPath)
			}
		}
	}

	r.orderedPaths = append(r.orderedPaths, path)
}

// bendPaths materializes the point lists. Innies consume offsets in use
// order, outies in reverse use order, so paths sharing a corner land on
// distinct, ordered offsets.
func (r *Router) bendPaths() {
	for _, path := range r.orderedPaths {
		if len(path.grownSegments) == 0 {
			// no route was found; an empty point list is the signal
			continue
		}
		path.points = append(path.points, geometry.Point{X: path.start.X, Y: path.start.Y})
		for v, seg := range path.grownSegments {
			vtx := seg.end
			if vtx != nil && v < len(path.grownSegments)-1 {
				if vtx.vtype == typeInnie {
					vtx.count++
					path.points = append(path.points, vtx.bend(vtx.count))
				} else {
					path.points = append(path.points, vtx.bend(vtx.totalCount))
					vtx.totalCount--
				}
			}
		}
		path.points = append(path.points, geometry.Point{X: path.end.X, Y: path.end.Y})
	}
}

// recombineSubpaths reconnects every split-off subpath into its parent and
// retires the subpaths.
func (r *Router) recombineSubpaths() {
	for _, path := range r.orderedPaths {
		path.reconnectSubPaths()
	}

	for _, sp := range r.subPaths {
		r.orderedPaths = removePathFrom(r.orderedPaths, sp)
		r.workingPaths = removePathFrom(r.workingPaths, sp)
	}
	r.subPaths = nil
}

// recombineChildrenPaths concatenates bendpoint children back into their
// user-visible parents, dropping each child's duplicated last point.
func (r *Router) recombineChildrenPaths() {
	for _, path := range r.userPaths {
		children := r.pathsToChildPaths[path]
		if len(children) == 0 {
			continue
		}

		path.fullReset()

		var last *Path
		for _, child := range children {
			path.segments = append(path.segments, child.segments...)
			path.visibleObstacles.addAll(child.visibleObstacles)
			if len(child.points) == 0 {
				continue
			}
			// each child's last point duplicates the next child's first
			path.points = append(path.points, child.points[:len(child.points)-1]...)
			last = child
		}

		if last != nil {
			path.points = append(path.points, last.points[len(last.points)-1])
		}
	}
}

// resetVertices clears the per-solve state on every obstacle corner and
// every path endpoint.
func (r *Router) resetVertices() {
	for _, obs := range r.userObstacles {
		obs.reset()
	}
	for _, path := range r.workingPaths {
		path.start.fullReset()
		path.end.fullReset()
	}
}

// resetObstacleExclusions clears the exclude flag on all obstacles.
func (r *Router) resetObstacleExclusions() {
	for _, obs := range r.userObstacles {
		obs.exclude = false
	}
}

// cleanup frees workspace not needed between solves.
func (r *Router) cleanup() {
	for _, path := range r.workingPaths {
		path.cleanup()
	}
}

func removePathFrom(paths []*Path, p *Path) []*Path {
	for i, t := range paths {
		if t == p {
			return append(paths[:i], paths[i+1:]...)
		}
	}
	return paths
}

func removeSegment(segs []*segment, s *segment) []*segment {
	for i, t := range segs {
		if t == s {
			return append(segs[:i], segs[i+1:]...)
		}
	}
	return segs
}

func insertSegments(segs []*segment, i int, a, b *segment) []*segment {
	segs = append(segs, nil, nil)
	copy(segs[i+2:], segs[i:])
	segs[i] = a
	segs[i+1] = b
	return segs
}
