package importer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"conduit/geometry"
)

// jsonScene is the on-disk shape of the native scene format:
//
//	{
//	  "obstacles": [[x, y, width, height], ...],
//	  "paths": [{"start": [x, y], "end": [x, y], "bends": [[x, y], ...]}, ...]
//	}
//
// Obstacles are 4-tuples and points 2-tuples, so scene files stay terse
// and line up with the router's tabular facade.
type jsonScene struct {
	Obstacles [][]int    `json:"obstacles"`
	Paths     []jsonPath `json:"paths"`
}

type jsonPath struct {
	Start []int   `json:"start"`
	End   []int   `json:"end"`
	Bends [][]int `json:"bends,omitempty"`
}

// JSONImporter reads the native scene format.
type JSONImporter struct{}

// NewJSONImporter creates a JSON scene importer.
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport reports whether the content looks like a JSON scene.
func (im *JSONImporter) CanImport(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Import parses a JSON scene.
func (im *JSONImporter) Import(content []byte) (*Scene, error) {
	var raw jsonScene
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("importer: parsing scene: %w", err)
	}

	scene := &Scene{}
	for i, o := range raw.Obstacles {
		if len(o) != 4 {
			return nil, fmt.Errorf("importer: obstacle %d has %d values, want 4", i, len(o))
		}
		scene.Obstacles = append(scene.Obstacles, geometry.Rect{X: o[0], Y: o[1], Width: o[2], Height: o[3]})
	}
	for i, p := range raw.Paths {
		spec, err := jsonPathSpec(p)
		if err != nil {
			return nil, fmt.Errorf("importer: path %d: %w", i, err)
		}
		scene.Paths = append(scene.Paths, spec)
	}
	return scene, nil
}

func jsonPathSpec(p jsonPath) (PathSpec, error) {
	start, err := jsonPoint(p.Start)
	if err != nil {
		return PathSpec{}, fmt.Errorf("start: %w", err)
	}
	end, err := jsonPoint(p.End)
	if err != nil {
		return PathSpec{}, fmt.Errorf("end: %w", err)
	}
	spec := PathSpec{Start: start, End: end}
	for i, b := range p.Bends {
		bend, err := jsonPoint(b)
		if err != nil {
			return PathSpec{}, fmt.Errorf("bend %d: %w", i, err)
		}
		spec.Bends = append(spec.Bends, bend)
	}
	return spec, nil
}

func jsonPoint(values []int) (geometry.Point, error) {
	if len(values) != 2 {
		return geometry.Point{}, fmt.Errorf("has %d values, want 2", len(values))
	}
	return geometry.Point{X: values[0], Y: values[1]}, nil
}

// FormatName returns "json".
func (im *JSONImporter) FormatName() string {
	return "json"
}

// FileExtensions returns the extensions this importer claims.
func (im *JSONImporter) FileExtensions() []string {
	return []string{".json"}
}

// MarshalScene writes a scene back out in the native format.
func MarshalScene(scene *Scene) ([]byte, error) {
	raw := jsonScene{}
	for _, o := range scene.Obstacles {
		raw.Obstacles = append(raw.Obstacles, []int{o.X, o.Y, o.Width, o.Height})
	}
	for _, p := range scene.Paths {
		jp := jsonPath{
			Start: []int{p.Start.X, p.Start.Y},
			End:   []int{p.End.X, p.End.Y},
		}
		for _, b := range p.Bends {
			jp.Bends = append(jp.Bends, []int{b.X, b.Y})
		}
		raw.Paths = append(raw.Paths, jp)
	}
	return json.MarshalIndent(raw, "", "  ")
}
