package importer

import (
	"strings"
	"testing"

	"conduit/geometry"
)

const sampleJSON = `{
  "obstacles": [[4, 0, 2, 10], [20, 5, 6, 6]],
  "paths": [
    {"start": [0, 5], "end": [30, 5]},
    {"start": [0, 0], "end": [30, 0], "bends": [[15, 8]]}
  ]
}`

const sampleSVG = `<?xml version="1.0"?>
<svg width="40" height="20" xmlns="http://www.w3.org/2000/svg">
  <rect x="4" y="0" width="2" height="10"/>
  <g>
    <rect x="20" y="5" width="6" height="6"/>
  </g>
  <line x1="0" y1="5" x2="30" y2="5"/>
  <polyline points="0,0 15,8 30,0"/>
</svg>`

func TestJSONImport(t *testing.T) {
	scene, err := NewJSONImporter().Import([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	wantObstacles := []geometry.Rect{
		{X: 4, Y: 0, Width: 2, Height: 10},
		{X: 20, Y: 5, Width: 6, Height: 6},
	}
	if len(scene.Obstacles) != len(wantObstacles) {
		t.Fatalf("got %d obstacles, want %d", len(scene.Obstacles), len(wantObstacles))
	}
	for i, want := range wantObstacles {
		if scene.Obstacles[i] != want {
			t.Errorf("obstacle %d = %v, want %v", i, scene.Obstacles[i], want)
		}
	}

	if len(scene.Paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(scene.Paths))
	}
	if scene.Paths[0].Start != (geometry.Point{0, 5}) || scene.Paths[0].End != (geometry.Point{30, 5}) {
		t.Errorf("path 0 endpoints = %v -> %v", scene.Paths[0].Start, scene.Paths[0].End)
	}
	if len(scene.Paths[1].Bends) != 1 || scene.Paths[1].Bends[0] != (geometry.Point{15, 8}) {
		t.Errorf("path 1 bends = %v, want [(15,8)]", scene.Paths[1].Bends)
	}
}

func TestJSONImportRejectsBadTuples(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short obstacle", `{"obstacles": [[1, 2, 3]]}`},
		{"long obstacle", `{"obstacles": [[1, 2, 3, 4, 5]]}`},
		{"short start", `{"paths": [{"start": [1], "end": [2, 3]}]}`},
		{"bad bend", `{"paths": [{"start": [0, 0], "end": [2, 3], "bends": [[1]]}]}`},
		{"not json", `{]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewJSONImporter().Import([]byte(tt.content)); err == nil {
				t.Error("Import should fail")
			}
		})
	}
}

func TestSVGImport(t *testing.T) {
	scene, err := NewSVGImporter().Import([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if len(scene.Obstacles) != 2 {
		t.Fatalf("got %d obstacles, want 2 (one nested in a group)", len(scene.Obstacles))
	}
	if scene.Obstacles[0] != (geometry.Rect{X: 4, Y: 0, Width: 2, Height: 10}) {
		t.Errorf("obstacle 0 = %v", scene.Obstacles[0])
	}

	if len(scene.Paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(scene.Paths))
	}
	line := scene.Paths[0]
	if line.Start != (geometry.Point{0, 5}) || line.End != (geometry.Point{30, 5}) || len(line.Bends) != 0 {
		t.Errorf("line path = %+v", line)
	}
	poly := scene.Paths[1]
	if poly.Start != (geometry.Point{0, 0}) || poly.End != (geometry.Point{30, 0}) {
		t.Errorf("polyline endpoints = %v -> %v", poly.Start, poly.End)
	}
	if len(poly.Bends) != 1 || poly.Bends[0] != (geometry.Point{15, 8}) {
		t.Errorf("polyline bends = %v, want [(15,8)]", poly.Bends)
	}
}

func TestSVGImportRejectsBadElements(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"rect without width", `<svg><rect x="1" y="2" height="3"/></svg>`},
		{"line without x2", `<svg><line x1="0" y1="0" y2="5"/></svg>`},
		{"polyline with one point", `<svg><polyline points="3,4"/></svg>`},
		{"malformed point pair", `<svg><polyline points="3,4 nope"/></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSVGImporter().Import([]byte(tt.content)); err == nil {
				t.Error("Import should fail")
			}
		})
	}
}

func TestRegistryDetection(t *testing.T) {
	reg := NewRegistry()

	scene, err := reg.Import([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("JSON auto-detection failed: %v", err)
	}
	if len(scene.Obstacles) != 2 {
		t.Errorf("json scene has %d obstacles, want 2", len(scene.Obstacles))
	}

	scene, err = reg.Import([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("SVG auto-detection failed: %v", err)
	}
	if len(scene.Paths) != 2 {
		t.Errorf("svg scene has %d paths, want 2", len(scene.Paths))
	}

	if _, err := reg.Import([]byte("just some text")); err == nil {
		t.Error("unknown content should fail detection")
	}
}

func TestMarshalSceneRoundTrip(t *testing.T) {
	original, err := NewJSONImporter().Import([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	data, err := MarshalScene(original)
	if err != nil {
		t.Fatalf("MarshalScene failed: %v", err)
	}
	if !strings.Contains(string(data), "obstacles") {
		t.Fatalf("marshaled scene looks wrong: %s", data)
	}

	reparsed, err := NewJSONImporter().Import(data)
	if err != nil {
		t.Fatalf("reimport failed: %v", err)
	}
	if len(reparsed.Obstacles) != len(original.Obstacles) || len(reparsed.Paths) != len(original.Paths) {
		t.Errorf("round trip changed the scene: %+v vs %+v", reparsed, original)
	}
}
