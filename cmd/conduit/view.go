package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"conduit/geometry"
	"conduit/importer"
	"conduit/routing"
)

// viewer is the interactive mode: the solved scene on a tcell screen, with
// one path selected. Arrow keys drag the selected endpoint and the router
// re-solves incrementally after every change.
type viewer struct {
	screen   tcell.Screen
	router   *routing.Router
	paths    []*routing.Path
	scene    *importer.Scene
	selected int
	moveEnd  bool // arrows move the end point when true, the start otherwise
	spacing  int
	status   string
}

var pathStyles = []tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorGreen),
	tcell.StyleDefault.Foreground(tcell.ColorAqua),
	tcell.StyleDefault.Foreground(tcell.ColorYellow),
	tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
}

func runViewer(scene *importer.Scene, spacing int) error {
	if len(scene.Paths) == 0 {
		return fmt.Errorf("scene has no paths to view")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	v := &viewer{
		screen:  screen,
		router:  routing.NewRouter(),
		scene:   scene,
		moveEnd: true,
		spacing: spacing,
	}
	v.router.SetSpacing(spacing)
	for _, o := range scene.Obstacles {
		v.router.AddObstacle(o)
	}
	for _, spec := range scene.Paths {
		p := routing.NewPath(spec.Start, spec.End)
		if len(spec.Bends) > 0 {
			p.SetBendPoints(spec.Bends)
		}
		v.router.AddPath(p)
		v.paths = append(v.paths, p)
	}

	return v.loop()
}

func (v *viewer) loop() error {
	for {
		if _, err := v.router.Solve(); err != nil {
			return err
		}
		v.draw()

		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
		}
	}
}

// handleKey applies one key event. Returns true to quit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		v.selected = (v.selected + 1) % len(v.paths)
		return false
	case tcell.KeyUp:
		v.moveSelected(0, -1)
		return false
	case tcell.KeyDown:
		v.moveSelected(0, 1)
		return false
	case tcell.KeyLeft:
		v.moveSelected(-1, 0)
		return false
	case tcell.KeyRight:
		v.moveSelected(1, 0)
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'e':
		v.moveEnd = !v.moveEnd
	case 's':
		if v.spacing > 1 {
			v.spacing--
			v.applySpacing()
		}
	case 'S':
		v.spacing++
		v.applySpacing()
	}
	return false
}

func (v *viewer) moveSelected(dx, dy int) {
	path := v.paths[v.selected]
	if v.moveEnd {
		path.SetEndPoint(path.EndPoint().Translated(dx, dy))
	} else {
		path.SetStartPoint(path.StartPoint().Translated(dx, dy))
	}
}

// applySpacing rebuilds the router: spacing feeds every offset, so every
// path has to be re-solved anyway.
func (v *viewer) applySpacing() {
	router := routing.NewRouter()
	router.SetSpacing(v.spacing)
	for _, o := range v.scene.Obstacles {
		router.AddObstacle(o)
	}
	for _, p := range v.paths {
		router.AddPath(p)
		p.SetBendPoints(p.BendPoints())
	}
	v.router = router
}

func (v *viewer) draw() {
	v.screen.Clear()

	obstacleStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, o := range v.scene.Obstacles {
		v.drawBox(o, obstacleStyle)
	}

	for i, p := range v.paths {
		style := pathStyles[i%len(pathStyles)]
		if i == v.selected {
			style = style.Bold(true)
		}
		v.drawRoute(p.Points(), style)
	}

	which := "end"
	if !v.moveEnd {
		which = "start"
	}
	v.status = fmt.Sprintf(" path %d/%d  moving: %s  spacing: %d   tab: next path  e: start/end  s/S: spacing  q: quit",
		v.selected+1, len(v.paths), which, v.spacing)
	v.drawStatus()

	v.screen.Show()
}

func (v *viewer) drawBox(r geometry.Rect, style tcell.Style) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	x2, y2 := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < x2; x++ {
		v.screen.SetContent(x, r.Y, '─', nil, style)
		v.screen.SetContent(x, y2, '─', nil, style)
	}
	for y := r.Y + 1; y < y2; y++ {
		v.screen.SetContent(r.X, y, '│', nil, style)
		v.screen.SetContent(x2, y, '│', nil, style)
	}
	v.screen.SetContent(r.X, r.Y, '┌', nil, style)
	v.screen.SetContent(x2, r.Y, '┐', nil, style)
	v.screen.SetContent(r.X, y2, '└', nil, style)
	v.screen.SetContent(x2, y2, '┘', nil, style)
}

func (v *viewer) drawRoute(points []geometry.Point, style tcell.Style) {
	for i := 0; i < len(points)-1; i++ {
		v.drawSegment(points[i], points[i+1], style)
	}
	if len(points) > 0 {
		start, end := points[0], points[len(points)-1]
		v.screen.SetContent(start.X, start.Y, '●', nil, style)
		v.screen.SetContent(end.X, end.Y, '○', nil, style)
	}
}

func (v *viewer) drawSegment(p1, p2 geometry.Point, style tcell.Style) {
	dx := geometry.Abs(p2.X - p1.X)
	dy := geometry.Abs(p2.Y - p1.Y)
	xInc, yInc := 1, 1
	if p1.X > p2.X {
		xInc = -1
	}
	if p1.Y > p2.Y {
		yInc = -1
	}

	char := '·'
	if dy == 0 {
		char = '─'
	} else if dx == 0 {
		char = '│'
	}

	x, y := p1.X, p1.Y
	if dx > dy {
		err := dx / 2
		for x != p2.X {
			v.screen.SetContent(x, y, char, nil, style)
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
			v.screen.SetContent(x, y, char, nil, style)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	v.screen.SetContent(p2.X, p2.Y, char, nil, style)
}

func (v *viewer) drawStatus() {
	width, height := v.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		v.screen.SetContent(x, height-1, ' ', nil, style)
	}
	for x, r := range []rune(v.status) {
		if x >= width {
			break
		}
		v.screen.SetContent(x, height-1, r, nil, style)
	}
}
