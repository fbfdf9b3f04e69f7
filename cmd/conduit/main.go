// Command conduit routes the connectors of a scene file around its
// obstacles and prints the result, or opens an interactive viewer.
//
// A scene file is JSON ({"obstacles": [[x,y,w,h],...], "paths": [...]})
// or SVG (rect elements are obstacles, line/polyline elements are
// connectors); the format is auto-detected.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"conduit"
	"conduit/canvas"
	"conduit/geometry"
	"conduit/importer"
	"conduit/routing"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive viewer (arrow keys move an endpoint, tab cycles paths)")
		spacing     = flag.Int("spacing", 4, "Minimum separation between paths and obstacles")
		format      = flag.String("format", "ascii", "Output format: ascii, points")
		route       = flag.String("route", "", "Route one ad-hoc connector \"x1,y1:x2,y2\" through the scene's obstacles")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	scene, err := loadScene(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "conduit: %v\n", err)
		os.Exit(1)
	}

	if *route != "" {
		if err := routeAdHoc(scene, *route); err != nil {
			fmt.Fprintf(os.Stderr, "conduit: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *interactive {
		if err := runViewer(scene, *spacing); err != nil {
			fmt.Fprintf(os.Stderr, "conduit: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := printSolved(scene, *spacing, *format); err != nil {
		fmt.Fprintf(os.Stderr, "conduit: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("conduit - connector routing around rectangular obstacles")
	fmt.Println()
	fmt.Println("Usage: conduit [options] <scene-file>")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}

func loadScene(filename string) (*importer.Scene, error) {
	if filename == "" {
		return nil, fmt.Errorf("no scene file given (try -help)")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return importer.NewRegistry().Import(data)
}

// solveScene routes every request of the scene through one router so that
// connectors sharing a corner fan out.
func solveScene(scene *importer.Scene, spacing int) ([]*routing.Path, error) {
	router := routing.NewRouter()
	router.SetSpacing(spacing)
	for _, o := range scene.Obstacles {
		router.AddObstacle(o)
	}
	paths := make([]*routing.Path, len(scene.Paths))
	for i, spec := range scene.Paths {
		p := routing.NewPath(spec.Start, spec.End)
		if len(spec.Bends) > 0 {
			p.SetBendPoints(spec.Bends)
		}
		router.AddPath(p)
		paths[i] = p
	}
	if _, err := router.Solve(); err != nil {
		return nil, err
	}
	return paths, nil
}

func printSolved(scene *importer.Scene, spacing int, format string) error {
	paths, err := solveScene(scene, spacing)
	if err != nil {
		return err
	}

	switch format {
	case "ascii":
		routes := make([][]geometry.Point, len(paths))
		for i, p := range paths {
			routes[i] = p.Points()
		}
		fmt.Println(canvas.Render(scene.Obstacles, routes))
	case "points":
		for i, p := range paths {
			points := p.Points()
			if len(points) == 0 {
				fmt.Printf("path %d: no route\n", i)
				continue
			}
			parts := make([]string, len(points))
			for j, pt := range points {
				parts[j] = fmt.Sprintf("(%d,%d)", pt.X, pt.Y)
			}
			fmt.Printf("path %d: %s\n", i, strings.Join(parts, " "))
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// routeAdHoc routes a single connector through the scene's obstacles using
// the one-shot facade.
func routeAdHoc(scene *importer.Scene, spec string) error {
	var x1, y1, x2, y2 int
	if _, err := fmt.Sscanf(spec, "%d,%d:%d,%d", &x1, &y1, &x2, &y2); err != nil {
		return fmt.Errorf("malformed -route %q, want \"x1,y1:x2,y2\"", spec)
	}

	obstacles := make([][]int, len(scene.Obstacles))
	for i, o := range scene.Obstacles {
		obstacles[i] = []int{o.X, o.Y, o.Width, o.Height}
	}

	points, err := conduit.SolveFor(obstacles, nil, x1, y1, x2, y2)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Println("no route")
		return nil
	}
	fmt.Println(canvas.Render(scene.Obstacles, [][]geometry.Point{points}))
	return nil
}
