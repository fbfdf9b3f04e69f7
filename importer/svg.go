package importer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"golang.org/x/net/html/charset"

	"conduit/geometry"
)

// SVGImporter reads a scene drawn as an SVG file: every rect element
// becomes an obstacle, every line element a routing request, and every
// polyline a request whose interior points are mandatory bends. This
// provides only limited SVG support; group transforms and curved path
// data are not understood.
type SVGImporter struct{}

// NewSVGImporter creates an SVG scene importer.
func NewSVGImporter() *SVGImporter {
	return &SVGImporter{}
}

// CanImport reports whether the content looks like an SVG document.
func (im *SVGImporter) CanImport(content []byte) bool {
	head := content
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// Import parses an SVG scene.
func (im *SVGImporter) Import(content []byte) (*Scene, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	decoder.CharsetReader = charset.NewReaderLabel
	root, err := svgparser.DecodeFirst(decoder)
	if err != nil {
		return nil, fmt.Errorf("importer: parsing svg: %w", err)
	}
	if err := root.Decode(decoder); err != nil && err != io.EOF {
		return nil, fmt.Errorf("importer: parsing svg: %w", err)
	}

	scene := &Scene{}
	if err := collectElements(scene, root); err != nil {
		return nil, err
	}
	return scene, nil
}

func collectElements(scene *Scene, e *svgparser.Element) error {
	for _, child := range e.Children {
		switch child.Name {
		case "g":
			if err := collectElements(scene, child); err != nil {
				return err
			}
		case "rect":
			r, err := parseRect(child)
			if err != nil {
				return err
			}
			scene.Obstacles = append(scene.Obstacles, r)
		case "line":
			spec, err := parseLine(child)
			if err != nil {
				return err
			}
			scene.Paths = append(scene.Paths, spec)
		case "polyline":
			spec, err := parsePolyline(child)
			if err != nil {
				return err
			}
			scene.Paths = append(scene.Paths, spec)
		default:
			// titles, defs, styling: nothing routable
		}
	}
	return nil
}

func parseRect(e *svgparser.Element) (geometry.Rect, error) {
	x, err1 := attrInt(e, "x")
	y, err2 := attrInt(e, "y")
	w, err3 := attrInt(e, "width")
	h, err4 := attrInt(e, "height")
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("importer: rect: %w", err)
		}
	}
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func parseLine(e *svgparser.Element) (PathSpec, error) {
	x1, err1 := attrInt(e, "x1")
	y1, err2 := attrInt(e, "y1")
	x2, err3 := attrInt(e, "x2")
	y2, err4 := attrInt(e, "y2")
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return PathSpec{}, fmt.Errorf("importer: line: %w", err)
		}
	}
	return PathSpec{
		Start: geometry.Point{X: x1, Y: y1},
		End:   geometry.Point{X: x2, Y: y2},
	}, nil
}

func parsePolyline(e *svgparser.Element) (PathSpec, error) {
	points, err := parsePointList(e.Attributes["points"])
	if err != nil {
		return PathSpec{}, fmt.Errorf("importer: polyline: %w", err)
	}
	if len(points) < 2 {
		return PathSpec{}, fmt.Errorf("importer: polyline needs at least 2 points, got %d", len(points))
	}
	return PathSpec{
		Start: points[0],
		End:   points[len(points)-1],
		Bends: points[1 : len(points)-1],
	}, nil
}

// parsePointList reads an SVG points attribute: whitespace-separated
// "x,y" pairs.
func parsePointList(attr string) ([]geometry.Point, error) {
	var points []geometry.Point
	for _, pair := range strings.Fields(attr) {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("malformed point %q", pair)
		}
		x, err := parseCoord(xy[0])
		if err != nil {
			return nil, err
		}
		y, err := parseCoord(xy[1])
		if err != nil {
			return nil, err
		}
		points = append(points, geometry.Point{X: x, Y: y})
	}
	return points, nil
}

func attrInt(e *svgparser.Element, name string) (int, error) {
	value, ok := e.Attributes[name]
	if !ok {
		return 0, fmt.Errorf("missing attribute %q", name)
	}
	return parseCoord(value)
}

// parseCoord accepts SVG numbers but lands them on the integer lattice the
// router works on.
func parseCoord(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed coordinate %q", s)
	}
	return int(f), nil
}

// FormatName returns "svg".
func (im *SVGImporter) FormatName() string {
	return "svg"
}

// FileExtensions returns the extensions this importer claims.
func (im *SVGImporter) FileExtensions() []string {
	return []string{".svg"}
}
