package sim

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Map layout strings are sequences of block letters the engine expands
// into road geometry.
const (
	blockStraight     = 'S'
	blockCurve        = 'C'
	blockIntersection = 'X'
	blockTJunction    = 'T'
	blockRoundabout   = 'O'
)

var blockNames = map[rune]string{
	blockStraight:     "Straight",
	blockCurve:        "Curve",
	blockIntersection: "4-Way Intersection",
	blockTJunction:    "T-Junction",
	blockRoundabout:   "Roundabout",
}

// Layouts is the built-in table of named map configurations.
var Layouts = map[string]string{
	"city":        "XCTOXCTOX",
	"highway":     "SSSCSSSCSSS",
	"complex":     "XCTOCSXTOS",
	"roundabouts": "OOOOO",
	"urban":       "XTXTXTXT",
	"suburban":    "SCSCSCSC",
	"default":     "XCTOX",
}

// Layout resolves a named layout, falling back to "default" for unknown
// names.
func Layout(name string) string {
	if m, ok := Layouts[name]; ok {
		return m
	}
	return Layouts["default"]
}

// ValidateLayout checks that every block letter is known.
func ValidateLayout(layout string) error {
	if layout == "" {
		return fmt.Errorf("sim: empty map layout")
	}
	for _, r := range layout {
		if _, ok := blockNames[r]; !ok {
			return fmt.Errorf("sim: unknown map block %q in layout %q", r, layout)
		}
	}
	return nil
}

// DecodeLayout renders a layout string as a readable block sequence, e.g.
// "XC" -> "4-Way Intersection -> Curve".
func DecodeLayout(layout string) string {
	parts := make([]string, 0, len(layout))
	for _, r := range layout {
		name, ok := blockNames[r]
		if !ok {
			name = string(r)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " -> ")
}

// LoadLayouts reads additional named layouts from a YAML file of the form
//
//	layouts:
//	  canyon: "SCCS"
//
// and merges them over the built-in table. Entries are validated before
// any merge happens, so a bad file changes nothing.
func LoadLayouts(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: read layout file: %w", err)
	}

	var file struct {
		Layouts map[string]string `yaml:"layouts"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("sim: parse layout file: %w", err)
	}
	for name, layout := range file.Layouts {
		if err := ValidateLayout(layout); err != nil {
			return nil, fmt.Errorf("sim: layout %q: %w", name, err)
		}
	}

	merged := make(map[string]string, len(Layouts)+len(file.Layouts))
	for name, layout := range Layouts {
		merged[name] = layout
	}
	for name, layout := range file.Layouts {
		merged[name] = layout
	}
	return merged, nil
}
