// Package importer loads routing scenes from external formats. A scene is
// a set of obstacles plus a set of routing requests; the JSON format is
// the native one, and SVG files can be read by mapping rect elements to
// obstacles and line/polyline elements to requests.
package importer

import (
	"fmt"

	"conduit/geometry"
)

// PathSpec is one routing request: endpoints plus optional mandatory bend
// points.
type PathSpec struct {
	Start geometry.Point
	End   geometry.Point
	Bends []geometry.Point
}

// Scene is a set of obstacles and routing requests, ready to hand to the
// router.
type Scene struct {
	Obstacles []geometry.Rect
	Paths     []PathSpec
}

// Importer reads a scene from serialized content.
type Importer interface {
	// CanImport checks whether the content looks like this importer's
	// format.
	CanImport(content []byte) bool

	// Import parses the content into a scene.
	Import(content []byte) (*Scene, error)

	// FormatName returns the human-readable name of the format.
	FormatName() string

	// FileExtensions returns common file extensions for this format.
	FileExtensions() []string
}

// Registry holds the known importers in detection order.
type Registry struct {
	importers []Importer
}

// NewRegistry creates a registry with the built-in importers.
func NewRegistry() *Registry {
	return &Registry{
		importers: []Importer{
			NewJSONImporter(),
			NewSVGImporter(),
		},
	}
}

// Register adds an importer to the registry.
func (r *Registry) Register(imp Importer) {
	r.importers = append(r.importers, imp)
}

// DetectFormat returns the first importer claiming the content.
func (r *Registry) DetectFormat(content []byte) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("importer: unable to detect format")
}

// Import parses the content with format auto-detection.
func (r *Registry) Import(content []byte) (*Scene, error) {
	imp, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return imp.Import(content)
}
